package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ecowear/marketplace/internal/database"
	"github.com/ecowear/marketplace/internal/models"
	"github.com/ecowear/marketplace/internal/sellers"
	"github.com/google/uuid"
)

const accountColumns = `id, name, email, password_hash, role, phone, address,
		brand_name, eco_certificate, seller_status, rejection_reason,
		verified_by, verified_at, created_at, updated_at, version`

type NewAccount struct {
	Name           string
	Email          string
	PasswordHash   string
	Role           string
	Phone          string
	Address        string
	BrandName      string
	EcoCertificate string
	// SellerStatus overrides the initial status for designated seed
	// accounts; normal seller signups always start pending.
	SellerStatus string
}

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	account := &models.Account{}
	var phone, address, brandName, ecoCertificate, sellerStatus, rejectionReason sql.NullString
	var verifiedBy sql.NullString
	var verifiedAt sql.NullTime

	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&phone,
		&address,
		&brandName,
		&ecoCertificate,
		&sellerStatus,
		&rejectionReason,
		&verifiedBy,
		&verifiedAt,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.Version,
	)
	if err != nil {
		return nil, err
	}

	account.Phone = phone.String
	account.Address = address.String
	account.BrandName = brandName.String
	account.EcoCertificate = ecoCertificate.String
	account.SellerStatus = sellerStatus.String
	account.RejectionReason = rejectionReason.String
	if verifiedBy.Valid {
		account.VerifiedBy = &verifiedBy.String
	}
	if verifiedAt.Valid {
		account.VerifiedAt = &verifiedAt.Time
	}
	return account, nil
}

func CreateAccount(ctx context.Context, db *sql.DB, req NewAccount) (*models.Account, error) {
	sellerStatus := sql.NullString{}
	if req.Role == models.RoleSeller {
		status := req.SellerStatus
		if status == "" {
			status = models.SellerStatusPending
		}
		sellerStatus = sql.NullString{String: status, Valid: true}
	}

	query := `
		INSERT INTO accounts (id, name, email, password_hash, role, phone, address,
			brand_name, eco_certificate, seller_status, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW(), 1)
		RETURNING ` + accountColumns

	row := db.QueryRowContext(ctx, query,
		uuid.NewString(), req.Name, req.Email, req.PasswordHash, req.Role,
		req.Phone, req.Address, req.BrandName, req.EcoCertificate, sellerStatus)

	account, err := scanAccount(row)
	if err != nil {
		if database.IsUniqueViolation(err, "accounts_email_key") {
			return nil, database.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

func GetAccount(ctx context.Context, db *sql.DB, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	return account, nil
}

// GetAccountByEmail matches the stored email exactly (case-sensitive).
func GetAccountByEmail(ctx context.Context, db *sql.DB, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	account, err := scanAccount(db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}

	return account, nil
}

type ProfileUpdate struct {
	Name    string
	Phone   string
	Address string
	// PasswordHash replaces the stored credential when non-empty.
	PasswordHash string
}

func UpdateProfile(ctx context.Context, db *sql.DB, id string, upd ProfileUpdate) (*models.Account, error) {
	account, err := GetAccount(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != "" {
		account.Name = upd.Name
	}
	if upd.Phone != "" {
		account.Phone = upd.Phone
	}
	if upd.Address != "" {
		account.Address = upd.Address
	}
	if upd.PasswordHash != "" {
		account.PasswordHash = upd.PasswordHash
	}

	query := `
		UPDATE accounts
		SET name = $1, phone = $2, address = $3, password_hash = $4,
		    updated_at = NOW(), version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING ` + accountColumns

	row := db.QueryRowContext(ctx, query,
		account.Name, account.Phone, account.Address, account.PasswordHash,
		account.ID, account.Version)

	updated, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOptimisticLockFailed
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return updated, nil
}

// ListSellers returns seller accounts, optionally filtered to one
// verification status.
func ListSellers(ctx context.Context, db *sql.DB, status string) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE role = $1`
	args := []any{models.RoleSeller}

	if status != "" {
		query += ` AND seller_status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan seller: %w", err)
		}
		accounts = append(accounts, *account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return accounts, nil
}

// VerifySeller runs the verification state machine against the current
// account snapshot and persists the result. The update is guarded on the
// previous status so a concurrent review loses cleanly.
func VerifySeller(ctx context.Context, db *sql.DB, sellerID, adminID string) (*models.Account, error) {
	account, err := GetAccount(ctx, db, sellerID)
	if err != nil {
		return nil, err
	}
	if account.Role != models.RoleSeller {
		return nil, database.ErrAccountNotFound
	}

	prevStatus := account.SellerStatus
	if err := sellers.Verify(account, adminID, time.Now()); err != nil {
		return nil, err
	}

	return persistSellerStatus(ctx, db, account, prevStatus)
}

// RejectSeller is the rejection counterpart; reason is required and stored
// for later login denials.
func RejectSeller(ctx context.Context, db *sql.DB, sellerID, reason string) (*models.Account, error) {
	account, err := GetAccount(ctx, db, sellerID)
	if err != nil {
		return nil, err
	}
	if account.Role != models.RoleSeller {
		return nil, database.ErrAccountNotFound
	}

	prevStatus := account.SellerStatus
	if err := sellers.Reject(account, reason); err != nil {
		return nil, err
	}

	return persistSellerStatus(ctx, db, account, prevStatus)
}

func persistSellerStatus(ctx context.Context, db *sql.DB, account *models.Account, prevStatus string) (*models.Account, error) {
	rejectionReason := sql.NullString{String: account.RejectionReason, Valid: account.RejectionReason != ""}
	verifiedBy := sql.NullString{}
	if account.VerifiedBy != nil {
		verifiedBy = sql.NullString{String: *account.VerifiedBy, Valid: true}
	}
	verifiedAt := sql.NullTime{}
	if account.VerifiedAt != nil {
		verifiedAt = sql.NullTime{Time: *account.VerifiedAt, Valid: true}
	}

	query := `
		UPDATE accounts
		SET seller_status = $1, rejection_reason = $2, verified_by = $3, verified_at = $4,
		    updated_at = NOW(), version = version + 1
		WHERE id = $5 AND seller_status = $6
		RETURNING ` + accountColumns

	row := db.QueryRowContext(ctx, query,
		account.SellerStatus, rejectionReason, verifiedBy, verifiedAt,
		account.ID, prevStatus)

	updated, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOptimisticLockFailed
		}
		return nil, fmt.Errorf("update seller status: %w", err)
	}

	return updated, nil
}
