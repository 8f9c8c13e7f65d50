package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hopefoundation_backend/internals/features/finance/errs"
	"hopefoundation_backend/internals/features/users/staff/dto"
	"hopefoundation_backend/internals/features/users/staff/model"
)

const accessTTLDefault = 7 * 24 * time.Hour

var ErrInvalidCredentials = fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")

type StaffService struct {
	DB     *gorm.DB
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func NewStaffService(db *gorm.DB, secret string) *StaffService {
	return &StaffService{DB: db, Secret: secret, TTL: accessTTLDefault, Now: time.Now}
}

func (s *StaffService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Login checks the password and issues an HS256 access token.
// Unknown email, wrong password and non-Active accounts all get the same answer.
func (s *StaffService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var st model.Staff
	err := s.DB.WithContext(ctx).Where("staff_email = ?", req.Email).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errs.Storage("login", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(st.StaffPasswordHash), []byte(req.Password)) != nil || !st.IsActive() {
		log.Printf("[WARN] failed login for %s", req.Email)
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.IssueToken(&st)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.DB.WithContext(ctx).Model(&st).Update("staff_last_login_at", now).Error; err != nil {
		log.Printf("[WARN] could not stamp last login for %s: %v", st.StaffID, err)
	}
	st.StaffLastLoginAt = &now

	return &dto.LoginResponse{AccessToken: token, ExpiresAt: exp.Unix(), Staff: &st}, nil
}

func (s *StaffService) IssueToken(st *model.Staff) (string, time.Time, error) {
	if strings.TrimSpace(s.Secret) == "" {
		return "", time.Time{}, fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET is not configured")
	}
	now := s.now()
	exp := now.Add(s.TTL)
	claims := jwt.MapClaims{
		"typ":   "access",
		"sub":   st.StaffID.String(),
		"id":    st.StaffID.String(),
		"email": st.StaffEmail,
		"role":  st.StaffRole,
		"name":  st.StaffName,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return "", time.Time{}, fiber.NewError(fiber.StatusInternalServerError, "could not sign access token")
	}
	return token, exp, nil
}

func (s *StaffService) Me(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	var st model.Staff
	if err := s.DB.WithContext(ctx).Where("staff_id = ?", id).First(&st).Error; err != nil {
		return nil, errs.FromLookup("get staff", "staff", id, err)
	}
	return &st, nil
}

func (s *StaffService) CreateStaff(ctx context.Context, req dto.CreateStaffRequest) (*model.Staff, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var n int64
	if err := s.DB.WithContext(ctx).Unscoped().Model(&model.Staff{}).Where("staff_email = ?", req.Email).Count(&n).Error; err != nil {
		return nil, errs.Storage("create staff", err)
	}
	if n > 0 {
		return nil, errs.NewValidation("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Storage("hash password", err)
	}
	st := model.Staff{
		StaffName:         req.Name,
		StaffEmail:        req.Email,
		StaffPasswordHash: string(hash),
		StaffRole:         req.Role,
		StaffDepartment:   req.Department,
		StaffStatus:       model.StaffStatusActive,
	}
	if err := s.DB.WithContext(ctx).Create(&st).Error; err != nil {
		return nil, errs.Storage("create staff", err)
	}

	log.Printf("[INFO] staff %s (%s) created", st.StaffEmail, st.StaffRole)
	return &st, nil
}

// StaffExists is the approver lookup used by the ledger.
func (s *StaffService) StaffExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&model.Staff{}).Where("staff_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
