package core

import (
	"strings"
	"time"
)

const (
	StatusActive   BlockStatus = "active"
	StatusInactive BlockStatus = "inactive"

	// MaxHeirsPerGrave bounds the ordered heir slots for one grave.
	MaxHeirsPerGrave = 3
)

type (
	BlockStatus string

	// Block is a named subdivision of the cemetery with its own
	// capacity and annual maintenance fee (whole Rupiah).
	Block struct {
		ID            int64       `json:"id"`
		Code          string      `json:"code"`
		Description   string      `json:"description"`
		TotalCapacity int64       `json:"total_capacity"`
		AnnualFee     int64       `json:"annual_fee"`
		Status        BlockStatus `json:"status"`
		CreatedAt     string      `json:"created_at"`
		UpdatedAt     string      `json:"updated_at"`
	}

	// Grave is a single burial plot record. (BlockID, Number) is unique.
	Grave struct {
		ID           int64  `json:"id"`
		DeceasedName string `json:"deceased_name"`
		BlockID      int64  `json:"block_id"`
		Number       string `json:"number"`
		DateOfDeath  string `json:"date_of_death"`
		BurialDate   string `json:"burial_date,omitempty"`
		Notes        string `json:"notes,omitempty"`
		CreatedAt    string `json:"created_at"`
		UpdatedAt    string `json:"updated_at"`
	}

	// GraveWithBlock joins a grave with its block's code and current fee,
	// which the listing and report surfaces always need together.
	GraveWithBlock struct {
		Grave
		BlockCode string `json:"block_code"`
		AnnualFee int64  `json:"annual_fee"`
	}

	// Heir is a next-of-kin contact for a grave, at most three, ordered.
	Heir struct {
		ID           int64  `json:"id"`
		GraveID      int64  `json:"grave_id"`
		OrderNumber  int64  `json:"order_number"`
		FullName     string `json:"full_name"`
		PhoneNumber  string `json:"phone_number,omitempty"`
		Relationship string `json:"relationship,omitempty"`
		Address      string `json:"address,omitempty"`
		IsPrimary    bool   `json:"is_primary"`
		CreatedAt    string `json:"created_at"`
		UpdatedAt    string `json:"updated_at"`
	}

	// Payment settles the annual fee for one grave in one calendar year.
	// (GraveID, Year) is unique.
	Payment struct {
		ID            int64  `json:"id"`
		GraveID       int64  `json:"grave_id"`
		Year          int    `json:"year"`
		PaymentDate   string `json:"payment_date"`
		Amount        int64  `json:"amount"`
		PaymentMethod string `json:"payment_method"`
		PaymentProof  string `json:"payment_proof,omitempty"`
		PaidBy        string `json:"paid_by,omitempty"`
		Notes         string `json:"notes,omitempty"`
		CreatedAt     string `json:"created_at"`
		UpdatedAt     string `json:"updated_at"`
	}

	// Settings is the singleton foundation configuration row.
	Settings struct {
		ID             int64  `json:"id"`
		FoundationName string `json:"foundation_name"`
		Address        string `json:"address,omitempty"`
		Phone          string `json:"phone,omitempty"`
		Email          string `json:"email,omitempty"`
		LogoPath       string `json:"logo_path,omitempty"`
		ActiveYear     int    `json:"active_year"`
		LastBackup     string `json:"last_backup,omitempty"`
		AutoBackup     bool   `json:"auto_backup"`
		CreatedAt      string `json:"created_at"`
		UpdatedAt      string `json:"updated_at"`
	}
)

// Request types carried from the HTTP boundary into the services. Pointer
// fields on the update requests mean "leave unchanged" (COALESCE semantics).
type (
	CreateBlockRequest struct {
		Code          string      `json:"code"`
		Description   string      `json:"description"`
		TotalCapacity int64       `json:"total_capacity"`
		AnnualFee     int64       `json:"annual_fee"`
		Status        BlockStatus `json:"status"`
	}

	UpdateBlockRequest struct {
		Code          *string      `json:"code"`
		Description   *string      `json:"description"`
		TotalCapacity *int64       `json:"total_capacity"`
		AnnualFee     *int64       `json:"annual_fee"`
		Status        *BlockStatus `json:"status"`
	}

	CreateGraveRequest struct {
		DeceasedName string `json:"deceased_name"`
		BlockID      int64  `json:"block_id"`
		Number       string `json:"number"`
		DateOfDeath  string `json:"date_of_death"`
		BurialDate   string `json:"burial_date"`
		Notes        string `json:"notes"`
	}

	UpdateGraveRequest struct {
		DeceasedName *string `json:"deceased_name"`
		BlockID      *int64  `json:"block_id"`
		Number       *string `json:"number"`
		DateOfDeath  *string `json:"date_of_death"`
		BurialDate   *string `json:"burial_date"`
		Notes        *string `json:"notes"`
	}

	CreateHeirRequest struct {
		GraveID      int64  `json:"grave_id"`
		OrderNumber  int64  `json:"order_number"`
		FullName     string `json:"full_name"`
		PhoneNumber  string `json:"phone_number"`
		Relationship string `json:"relationship"`
		Address      string `json:"address"`
		IsPrimary    bool   `json:"is_primary"`
	}

	CreatePaymentRequest struct {
		GraveID       int64  `json:"grave_id"`
		Year          int    `json:"year"`
		PaymentDate   string `json:"payment_date"`
		Amount        int64  `json:"amount"`
		PaymentMethod string `json:"payment_method"`
		PaymentProof  string `json:"payment_proof"`
		PaidBy        string `json:"paid_by"`
		Notes         string `json:"notes"`
	}

	UpdateSettingsRequest struct {
		FoundationName *string `json:"foundation_name"`
		Address        *string `json:"address"`
		Phone          *string `json:"phone"`
		Email          *string `json:"email"`
		LogoPath       *string `json:"logo_path"`
		ActiveYear     *int    `json:"active_year"`
		AutoBackup     *bool   `json:"auto_backup"`
	}
)

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func (r CreateBlockRequest) Validate() error {
	code := strings.TrimSpace(r.Code)
	if code == "" {
		return ErrEmptyCode
	}
	if len([]rune(code)) != 1 {
		return ErrInvalidCode
	}
	if r.TotalCapacity <= 0 {
		return ErrInvalidCapacity
	}
	if r.AnnualFee <= 0 {
		return ErrInvalidAmount
	}
	switch r.Status {
	case StatusActive, StatusInactive:
	default:
		return ErrInvalidStatus
	}
	return nil
}

func (r CreateGraveRequest) Validate() error {
	if strings.TrimSpace(r.DeceasedName) == "" {
		return ErrEmptyName
	}
	if r.BlockID <= 0 {
		return ErrInvalidBlock
	}
	if strings.TrimSpace(r.Number) == "" {
		return ErrEmptyNumber
	}
	if !ValidDate(r.DateOfDeath) {
		return ErrInvalidDate
	}
	if r.BurialDate != "" && !ValidDate(r.BurialDate) {
		return ErrInvalidDate
	}
	return nil
}

func (r CreateHeirRequest) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return ErrEmptyName
	}
	if r.OrderNumber < 1 || r.OrderNumber > MaxHeirsPerGrave {
		return ErrInvalidHeirOrder
	}
	return nil
}

func (r CreatePaymentRequest) Validate() error {
	if r.GraveID <= 0 {
		return ErrInvalidGrave
	}
	if !ValidDate(r.PaymentDate) {
		return ErrInvalidDate
	}
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
