package service

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hopefoundation_backend/internals/features/finance/allocations/dto"
	"hopefoundation_backend/internals/features/finance/allocations/model"
	"hopefoundation_backend/internals/features/finance/errs"
	"hopefoundation_backend/internals/features/finance/reconciliation/engine"
)

// Invalidator is told after every successful write so cached figures can be dropped.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type AllocationService struct {
	DB       *gorm.DB
	OnChange Invalidator
}

func NewAllocationService(db *gorm.DB) *AllocationService {
	return &AllocationService{DB: db}
}

func (s *AllocationService) changed(ctx context.Context) {
	if s.OnChange != nil {
		s.OnChange.Invalidate(ctx)
	}
}

/* ===================== Utilization ratios ===================== */

// GetUtilizationRatios returns the stored policy in display order, or the
// 50/30/20 default when no complete policy has been saved.
func (s *AllocationService) GetUtilizationRatios(ctx context.Context) ([]model.UtilizationRatio, error) {
	var rows []model.UtilizationRatio
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, errs.Storage("get utilization ratios", err)
	}
	byCat := make(map[string]model.UtilizationRatio, len(rows))
	for _, r := range rows {
		byCat[r.UtilizationRatioCategory] = r
	}

	out := make([]model.UtilizationRatio, 0, len(model.RatioCategories))
	for _, c := range model.RatioCategories {
		r, ok := byCat[c]
		if !ok {
			return model.DefaultRatios(), nil
		}
		out = append(out, r)
	}
	return out, nil
}

// SetUtilizationRatios stores all three ratios in one transaction or none of them.
func (s *AllocationService) SetUtilizationRatios(ctx context.Context, req dto.SetUtilizationRatiosRequest, actor *uuid.UUID) ([]model.UtilizationRatio, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	percents := req.Percents()
	rows := make([]model.UtilizationRatio, 0, len(model.RatioCategories))
	for _, c := range model.RatioCategories {
		rows = append(rows, model.NewUtilizationRatio(c, percents[c], actor))
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "utilization_ratio_category"}},
			DoUpdates: clause.AssignmentColumns([]string{"utilization_ratio_percent", "utilization_ratio_value", "utilization_ratio_updated_by", "updated_at"}),
		}).Create(&rows).Error
	})
	if err != nil {
		return nil, errs.Storage("set utilization ratios", err)
	}

	log.Printf("[INFO] utilization ratios set to %d/%d/%d", percents[model.SectorEducation], percents[model.SectorNutrition], percents[model.SectorHealthcare])
	s.changed(ctx)
	return rows, nil
}

/* ===================== Institution allocations ===================== */

// SetInstitutionAllocations writes every listed allocation or none. An
// unknown id rolls the whole set back with NotFoundError.
func (s *AllocationService) SetInstitutionAllocations(ctx context.Context, req dto.SetInstitutionAllocationsRequest) (*dto.InstitutionsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	alloc := req.Parsed()

	var resp dto.InstitutionsResponse
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uuid.UUID, 0, len(alloc))
		for id, pct := range alloc {
			res := tx.Model(&model.Institution{}).
				Where("institution_id = ?", id).
				Update("institution_allocation", pct)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errs.NotFound("institution", id)
			}
			ids = append(ids, id)
		}
		if err := tx.Where("institution_id IN ?", ids).Order("institution_name ASC").Find(&resp.Institutions).Error; err != nil {
			return err
		}
		state, err := allocationState(tx)
		resp.AllocationState = state
		return err
	})
	if err != nil {
		return nil, errs.Storage("set institution allocations", err)
	}

	log.Printf("[INFO] institution allocations updated (%d entries), active total %d%%", len(alloc), resp.AllocationTotal)
	s.changed(ctx)
	return &resp, nil
}

// AllocationState sums allocation over Active institutions.
func (s *AllocationService) AllocationState(ctx context.Context) (dto.AllocationState, error) {
	st, err := allocationState(s.DB.WithContext(ctx))
	return st, errs.Storage("allocation total", err)
}

func allocationState(db *gorm.DB) (dto.AllocationState, error) {
	var active []model.Institution
	if err := db.Where("institution_status = ?", model.InstitutionStatusActive).Find(&active).Error; err != nil {
		return dto.AllocationState{}, err
	}
	return dto.NewAllocationState(engine.AllocationTotal(active)), nil
}

/* ===================== Institutions ===================== */

// AddInstitution stores the institution with the allocation it was given.
// Other institutions are never rebalanced; the response carries the new total.
func (s *AllocationService) AddInstitution(ctx context.Context, req dto.CreateInstitutionRequest) (*dto.InstitutionResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	inst := req.ToModel()

	var state dto.AllocationState
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inst).Error; err != nil {
			return err
		}
		var err error
		state, err = allocationState(tx)
		return err
	})
	if err != nil {
		return nil, errs.Storage("add institution", err)
	}

	if !state.Balanced {
		log.Printf("[WARN] institution %s added; active allocation total is now %d%%", inst.InstitutionName, state.AllocationTotal)
	}
	s.changed(ctx)
	return &dto.InstitutionResponse{Institution: &inst, AllocationState: state}, nil
}

func (s *AllocationService) GetInstitution(ctx context.Context, id uuid.UUID) (*model.Institution, error) {
	var inst model.Institution
	if err := s.DB.WithContext(ctx).Where("institution_id = ?", id).First(&inst).Error; err != nil {
		return nil, errs.FromLookup("get institution", "institution", id, err)
	}
	return &inst, nil
}

// ListInstitutions filters by sector, status and a case-insensitive city substring; ordered by name.
func (s *AllocationService) ListInstitutions(ctx context.Context, f dto.InstitutionFilter) ([]model.Institution, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	q := s.DB.WithContext(ctx).Model(&model.Institution{})
	if f.Sector != "" {
		q = q.Where("institution_sector = ?", f.Sector)
	}
	if f.Status != "" {
		q = q.Where("institution_status = ?", f.Status)
	}
	if f.City != "" {
		q = q.Where("LOWER(institution_city) LIKE ?", "%"+strings.ToLower(f.City)+"%")
	}

	var out []model.Institution
	if err := q.Order("institution_name ASC").Find(&out).Error; err != nil {
		return nil, errs.Storage("list institutions", err)
	}
	return out, nil
}

// UpdateInstitution applies a partial update. Allocation may be edited here
// one institution at a time; the response reports the resulting total.
func (s *AllocationService) UpdateInstitution(ctx context.Context, id uuid.UUID, req dto.UpdateInstitutionRequest) (*dto.InstitutionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	changes := req.Changes()

	var (
		inst  model.Institution
		state dto.AllocationState
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("institution_id = ?", id).First(&inst).Error; err != nil {
			return errs.FromLookup("update institution", "institution", id, err)
		}
		if len(changes) > 0 {
			if err := tx.Model(&inst).Updates(changes).Error; err != nil {
				return err
			}
			if err := tx.Where("institution_id = ?", id).First(&inst).Error; err != nil {
				return err
			}
		}
		var err error
		state, err = allocationState(tx)
		return err
	})
	if err != nil {
		return nil, errs.Storage("update institution", err)
	}

	s.changed(ctx)
	return &dto.InstitutionResponse{Institution: &inst, AllocationState: state}, nil
}

func (s *AllocationService) DeleteInstitution(ctx context.Context, id uuid.UUID) (*dto.AllocationState, error) {
	var state dto.AllocationState
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("institution_id = ?", id).Delete(&model.Institution{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("institution", id)
		}
		var err error
		state, err = allocationState(tx)
		return err
	})
	if err != nil {
		return nil, errs.Storage("delete institution", err)
	}

	log.Printf("[INFO] institution %s deleted; active allocation total %d%%", id, state.AllocationTotal)
	s.changed(ctx)
	return &state, nil
}

// InstitutionStats counts institutions per sector and sums the Active allocation per sector.
func (s *AllocationService) InstitutionStats(ctx context.Context) (*dto.InstitutionStats, error) {
	var all []model.Institution
	if err := s.DB.WithContext(ctx).Find(&all).Error; err != nil {
		return nil, errs.Storage("institution stats", err)
	}

	st := &dto.InstitutionStats{Total: len(all)}
	bySector := map[string]*dto.SectorStat{}
	for i := range all {
		inst := &all[i]
		ss, ok := bySector[inst.InstitutionSector]
		if !ok {
			ss = &dto.SectorStat{Sector: inst.InstitutionSector}
			bySector[inst.InstitutionSector] = ss
		}
		ss.Count++
		if inst.IsActive() {
			st.Active++
			ss.Allocation += inst.InstitutionAllocation
		}
	}
	for _, ss := range bySector {
		st.BySector = append(st.BySector, *ss)
	}
	sort.Slice(st.BySector, func(i, j int) bool { return st.BySector[i].Sector < st.BySector[j].Sector })
	st.AllocationState = dto.NewAllocationState(engine.AllocationTotal(all))
	return st, nil
}
