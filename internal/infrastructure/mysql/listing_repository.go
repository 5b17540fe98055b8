package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mlopezuch/fila-backend/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLListingRepository struct {
	db *sql.DB
}

func NewMySQLListingRepository(db *sql.DB) *MySQLListingRepository {
	return &MySQLListingRepository{db: db}
}

func (r *MySQLListingRepository) Insert(ctx context.Context, listing *domain.Listing) error {
	query := `
        INSERT INTO listings (id, title, price, lat, lng, status, user_id, user_name, user_photo, client_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		listing.ID, listing.Title, listing.Price, listing.Lat, listing.Lng,
		string(listing.Status),
		nullable(listing.UserID), nullable(listing.UserName), nullable(listing.UserPhoto),
		nullablePtr(listing.ClientID),
		listing.CreatedAt, listing.UpdatedAt)
	return err
}

func (r *MySQLListingRepository) Get(ctx context.Context, listingID string) (*domain.Listing, error) {
	query := `
        SELECT id, title, price, lat, lng, status, user_id, user_name, user_photo, client_id, created_at, updated_at
        FROM listings WHERE id = ?
    `

	listing, err := scanListing(r.db.QueryRowContext(ctx, query, listingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}

	return listing, nil
}

func (r *MySQLListingRepository) ListAll(ctx context.Context) ([]*domain.Listing, error) {
	query := `
        SELECT id, title, price, lat, lng, status, user_id, user_name, user_photo, client_id, created_at, updated_at
        FROM listings
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanListings(rows)
}

// MarkBooked is the compare-and-swap for the AVAILABLE -> BOOKED transition:
// the status predicate settles races, so exactly one of two concurrent
// bookings sees an affected row.
func (r *MySQLListingRepository) MarkBooked(ctx context.Context, listingID, clientID string) (bool, error) {
	query := `UPDATE listings SET status = ?, client_id = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, query,
		string(domain.StatusBooked), nullable(clientID), time.Now(),
		listingID, string(domain.StatusAvailable))
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *MySQLListingRepository) MarkCompleted(ctx context.Context, listingID string, from ...domain.ListingStatus) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(from)), ", ")
	query := `UPDATE listings SET status = ?, updated_at = ? WHERE id = ? AND status IN (` + placeholders + `)`

	args := []interface{}{string(domain.StatusCompleted), time.Now(), listingID}
	for _, s := range from {
		args = append(args, string(s))
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *MySQLListingRepository) Delete(ctx context.Context, listingID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, listingID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *MySQLListingRepository) ListCompletedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Listing, error) {
	query := `
        SELECT id, title, price, lat, lng, status, user_id, user_name, user_photo, client_id, created_at, updated_at
        FROM listings
        WHERE status = ? AND updated_at <= ?
        ORDER BY updated_at ASC
    `

	rows, err := r.db.QueryContext(ctx, query, string(domain.StatusCompleted), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanListings(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var listing domain.Listing
	var status string
	var userID, userName, userPhoto, clientID sql.NullString

	err := row.Scan(&listing.ID, &listing.Title, &listing.Price, &listing.Lat, &listing.Lng,
		&status, &userID, &userName, &userPhoto, &clientID,
		&listing.CreatedAt, &listing.UpdatedAt)
	if err != nil {
		return nil, err
	}

	listing.Status = domain.ListingStatus(status)
	listing.UserID = userID.String
	listing.UserName = userName.String
	listing.UserPhoto = userPhoto.String
	if clientID.Valid {
		listing.ClientID = &clientID.String
	}

	return &listing, nil
}

func scanListings(rows *sql.Rows) ([]*domain.Listing, error) {
	var listings []*domain.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return listings, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullablePtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
