package seeds

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hopefoundation_backend/internals/constants"
	allocDto "hopefoundation_backend/internals/features/finance/allocations/dto"
	allocService "hopefoundation_backend/internals/features/finance/allocations/service"
	"hopefoundation_backend/internals/features/finance/errs"
	ledgerDto "hopefoundation_backend/internals/features/finance/ledger/dto"
	ledgerModel "hopefoundation_backend/internals/features/finance/ledger/model"
	ledgerService "hopefoundation_backend/internals/features/finance/ledger/service"
	staffDto "hopefoundation_backend/internals/features/users/staff/dto"
	staffModel "hopefoundation_backend/internals/features/users/staff/model"
	staffService "hopefoundation_backend/internals/features/users/staff/service"
)

//go:embed data/*.json
var dataFS embed.FS

// Seeder memasukkan data awal lewat service yang sama dengan API,
// jadi saldo ledger tetap dijaga oleh balance guard.
type Seeder struct {
	DB     *gorm.DB
	Staff  *staffService.StaffService
	Ledger *ledgerService.LedgerService
	Alloc  *allocService.AllocationService
}

func NewSeeder(db *gorm.DB) *Seeder {
	staff := staffService.NewStaffService(db, "")
	ledger := ledgerService.NewLedgerService(db)
	ledger.Staff = staff
	return &Seeder{
		DB:     db,
		Staff:  staff,
		Ledger: ledger,
		Alloc:  allocService.NewAllocationService(db),
	}
}

func readJSON(name string, out any) error {
	raw, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// RunAll menjalankan semua seeder berurutan. Aman dijalankan ulang.
func (s *Seeder) RunAll(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"staff", s.SeedStaff},
		{"institutions", s.SeedInstitutions},
		{"ratios", s.SeedRatios},
		{"ledger", s.SeedLedger},
	}
	for _, st := range steps {
		if err := st.fn(ctx); err != nil {
			return fmt.Errorf("seed %s: %w", st.name, err)
		}
	}
	log.Println("✅ Seeding selesai")
	return nil
}

func (s *Seeder) SeedStaff(ctx context.Context) error {
	var inputs []staffDto.CreateStaffRequest
	if err := readJSON("staff.json", &inputs); err != nil {
		return err
	}
	for _, in := range inputs {
		st, err := s.Staff.CreateStaff(ctx, in)
		var ve *errs.ValidationError
		if errors.As(err, &ve) {
			log.Printf("ℹ️ Staff '%s' dilewati: %v", in.Email, err)
			continue
		}
		if err != nil {
			return err
		}
		log.Printf("👤 Staff '%s' (%s) dibuat", st.StaffEmail, st.StaffRole)
	}
	return nil
}

func (s *Seeder) SeedInstitutions(ctx context.Context) error {
	existing, err := s.Alloc.ListInstitutions(ctx, allocDto.InstitutionFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Printf("ℹ️ %d institusi sudah ada, dilewati", len(existing))
		return nil
	}

	var inputs []allocDto.CreateInstitutionRequest
	if err := readJSON("institutions.json", &inputs); err != nil {
		return err
	}
	for _, in := range inputs {
		resp, err := s.Alloc.AddInstitution(ctx, in)
		if err != nil {
			return err
		}
		log.Printf("🏢 Institusi '%s' (%d%%) dibuat", resp.Institution.InstitutionName, resp.Institution.InstitutionAllocation)
	}
	return nil
}

func (s *Seeder) SeedRatios(ctx context.Context) error {
	var req allocDto.SetUtilizationRatiosRequest
	if err := readJSON("ratios.json", &req); err != nil {
		return err
	}
	_, err := s.Alloc.SetUtilizationRatios(ctx, req, nil)
	return err
}

type ledgerSeed struct {
	Donations     []ledgerDto.CreateDonationRequest     `json:"donations"`
	Disbursements []ledgerDto.CreateDisbursementRequest `json:"disbursements"`
}

// SeedLedger mencatat donasi contoh lalu pencairan contoh atas nama admin pertama.
// Donasi yang external_order_id-nya sudah tercatat dilewati; pencairan hanya
// dimasukkan bila tabelnya masih kosong.
func (s *Seeder) SeedLedger(ctx context.Context) error {
	if err := s.Ledger.EnsureBalance(ctx); err != nil {
		return err
	}
	var data ledgerSeed
	if err := readJSON("ledger.json", &data); err != nil {
		return err
	}

	for _, in := range data.Donations {
		d, err := s.Ledger.RecordDonation(ctx, in, nil)
		var ve *errs.ValidationError
		if errors.As(err, &ve) {
			log.Printf("ℹ️ Donasi '%s' dilewati: %v", in.DonorName, err)
			continue
		}
		if err != nil {
			return err
		}
		log.Printf("💰 Donasi %s dari '%s' dicatat", d.DonationAmount.StringFixed(2), d.DonationDonorName)
	}

	var n int64
	if err := s.DB.WithContext(ctx).Unscoped().Model(&ledgerModel.Disbursement{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		log.Printf("ℹ️ %d pencairan sudah ada, dilewati", n)
		return nil
	}

	approver, err := s.firstAdmin(ctx)
	if err != nil {
		return err
	}
	for _, in := range data.Disbursements {
		d, err := s.Ledger.RecordDisbursement(ctx, in, approver)
		if err != nil {
			return err
		}
		log.Printf("📤 Pencairan %s ke '%s' dicatat", d.DisbursementAmount.StringFixed(2), d.DisbursementRecipient)
	}
	return nil
}

func (s *Seeder) firstAdmin(ctx context.Context) (*uuid.UUID, error) {
	var st staffModel.Staff
	err := s.DB.WithContext(ctx).
		Where("staff_role = ?", constants.RoleAdmin).
		Order("created_at ASC").
		First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st.StaffID, nil
}
