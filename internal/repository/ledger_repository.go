package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/movietix/ticket-ledger/internal/ledger"
)

// LedgerRepo persists ledger snapshots in the durable layout: a dense
// 'listings' table keyed by index, a 'holdings' table keyed by
// (account_id, listing_idx), and a single 'ledger_meta' row carrying the
// revenue scalar and the listing count. The in-memory ledger is the source
// of truth while the process runs; the tables only ever hold complete
// snapshots written in one transaction.
type LedgerRepo struct {
	db *sql.DB
}

// NewLedgerRepo constructs a LedgerRepo with the given DB handle.
func NewLedgerRepo(db *sql.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

// Save rewrites the persisted state from the snapshot. The previous rows
// are deleted and the snapshot inserted inside a single transaction so a
// reader never observes a half-written snapshot.
func (r *LedgerRepo) Save(ctx context.Context, s ledger.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, table := range []string{"holdings", "listings"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	const insListing = `INSERT INTO listings
        (idx, admin_id, name, image, film_industry, genre, description, price, sold, tickets_available, for_sale)
        VALUES (?,?,?,?,?,?,?,?,?,?,?)`
	for i, lst := range s.Listings {
		if _, err = tx.ExecContext(ctx, insListing,
			i, uint64(lst.Admin), lst.Name, lst.Image, lst.FilmIndustry, lst.Genre,
			lst.Description, lst.Price, lst.Sold, lst.TicketsAvailable, lst.ForSale); err != nil {
			return err
		}
	}
	const insHolding = `INSERT INTO holdings (account_id, listing_idx, units) VALUES (?,?,?)`
	for buyer, m := range s.Holdings {
		for idx, units := range m {
			if _, err = tx.ExecContext(ctx, insHolding, uint64(buyer), idx, units); err != nil {
				return err
			}
		}
	}
	const upMeta = `INSERT INTO ledger_meta (id, total_revenue, listing_count) VALUES (1,?,?)
        ON DUPLICATE KEY UPDATE total_revenue=VALUES(total_revenue), listing_count=VALUES(listing_count)`
	if _, err = tx.ExecContext(ctx, upMeta, s.TotalRevenue, len(s.Listings)); err != nil {
		return err
	}
	return nil
}

// Load rebuilds a snapshot from the persisted tables. It returns
// ErrNoSnapshot when no meta row exists yet.
func (r *LedgerRepo) Load(ctx context.Context) (ledger.Snapshot, error) {
	var s ledger.Snapshot
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT total_revenue, listing_count FROM ledger_meta WHERE id=1").
		Scan(&s.TotalRevenue, &count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Snapshot{}, ErrNoSnapshot
		}
		return ledger.Snapshot{}, err
	}

	s.Listings = make([]ledger.Listing, count)
	rows, err := r.db.QueryContext(ctx,
		`SELECT idx, admin_id, name, image, film_industry, genre, description, price, sold, tickets_available, for_sale
         FROM listings ORDER BY idx ASC`)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			idx   int
			admin uint64
			lst   ledger.Listing
		)
		if err := rows.Scan(&idx, &admin, &lst.Name, &lst.Image, &lst.FilmIndustry,
			&lst.Genre, &lst.Description, &lst.Price, &lst.Sold,
			&lst.TicketsAvailable, &lst.ForSale); err != nil {
			return ledger.Snapshot{}, err
		}
		if idx < 0 || idx >= count {
			return ledger.Snapshot{}, errors.New("listing index outside persisted count")
		}
		lst.Admin = ledger.Identity(admin)
		s.Listings[idx] = lst
	}
	if err := rows.Err(); err != nil {
		return ledger.Snapshot{}, err
	}

	s.Holdings = make(map[ledger.Identity]map[int]uint64)
	hrows, err := r.db.QueryContext(ctx,
		"SELECT account_id, listing_idx, units FROM holdings")
	if err != nil {
		return ledger.Snapshot{}, err
	}
	defer hrows.Close()
	for hrows.Next() {
		var (
			account uint64
			idx     int
			units   uint64
		)
		if err := hrows.Scan(&account, &idx, &units); err != nil {
			return ledger.Snapshot{}, err
		}
		buyer := ledger.Identity(account)
		if s.Holdings[buyer] == nil {
			s.Holdings[buyer] = make(map[int]uint64)
		}
		s.Holdings[buyer][idx] = units
	}
	if err := hrows.Err(); err != nil {
		return ledger.Snapshot{}, err
	}
	return s, nil
}
