package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/martivergara/pressupost/internal/db"
	"github.com/martivergara/pressupost/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo. Each save rewrites the
// project's rows from scratch inside one transaction; the stored and
// in-memory shapes never drift apart through partial updates.
type SQLiteSnapshotRepo struct {
	database *sql.DB
	uow      db.UnitOfWork
}

// NewSQLiteSnapshotRepo creates a new SQLiteSnapshotRepo.
func NewSQLiteSnapshotRepo(database *sql.DB) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{database: database, uow: db.NewSQLiteUnitOfWork(database)}
}

// NewSQLiteSnapshotRepoWithUoW creates a SQLiteSnapshotRepo with an explicit
// unit of work, letting tests inject failing transactions.
func NewSQLiteSnapshotRepoWithUoW(database *sql.DB, uow db.UnitOfWork) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{database: database, uow: uow}
}

func (r *SQLiteSnapshotRepo) Save(ctx context.Context, projectID string, b *domain.Budget, prices domain.PriceDatabase) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE projects SET name = ?, updated_at = ? WHERE id = ?`,
			b.Name, nowUTC(), projectID)
		if err != nil {
			return fmt.Errorf("touching project: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
		}

		for _, stmt := range []string{
			`DELETE FROM breakdown_lines WHERE project_id = ?`,
			`DELETE FROM budget_nodes WHERE project_id = ?`,
			`DELETE FROM price_entries WHERE project_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, projectID); err != nil {
				return fmt.Errorf("clearing snapshot: %w", err)
			}
		}

		for i, ch := range b.Chapters {
			if err := insertNode(ctx, tx, projectID, nil, "chapter", i, ch); err != nil {
				return err
			}
		}

		for norm, entry := range prices {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO price_entries (project_id, norm_code, code, unit, summary, price) VALUES (?, ?, ?, ?, ?, ?)`,
				projectID, norm, entry.Code, entry.Unit, entry.Summary, entry.Price); err != nil {
				return fmt.Errorf("inserting price entry %s: %w", norm, err)
			}
			if err := insertBreakdown(ctx, tx, projectID, nil, norm, entry.Breakdown); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertNode(ctx context.Context, tx db.DBTX, projectID string, parentID any, slot string, idx int, n *domain.Node) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO budget_nodes (id, project_id, parent_id, slot, order_index, code, description, full_description, unit, price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, projectID, parentID, slot, idx, n.Code, n.Description, n.FullDescription, n.Unit, n.Price)
	if err != nil {
		return fmt.Errorf("inserting node %s: %w", n.Code, err)
	}

	for i, m := range n.Measurements {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO node_measurements (id, node_id, order_index, description, units, length, width, height, is_increment)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, n.ID, i, m.Description, m.Units, m.Length, m.Width, m.Height, boolToInt(m.IsIncrement)); err != nil {
			return fmt.Errorf("inserting measurement: %w", err)
		}
	}

	if err := insertBreakdown(ctx, tx, projectID, n.ID, "", n.Breakdown); err != nil {
		return err
	}

	for i, sub := range n.SubChapters {
		if err := insertNode(ctx, tx, projectID, n.ID, "chapter", i, sub); err != nil {
			return err
		}
	}
	for i, item := range n.Items {
		if err := insertNode(ctx, tx, projectID, n.ID, "item", i, item); err != nil {
			return err
		}
	}
	return nil
}

func insertBreakdown(ctx context.Context, tx db.DBTX, projectID string, ownerNode any, ownerCode string, lines []domain.BreakdownLine) error {
	var code any
	if ownerCode != "" {
		code = ownerCode
	}
	for i, l := range lines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO breakdown_lines (project_id, owner_node, owner_code, order_index, code, description, unit, yield, price, total)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			projectID, ownerNode, code, i, l.Code, l.Description, l.Unit, l.Yield, l.Price, l.Total); err != nil {
			return fmt.Errorf("inserting breakdown line %s: %w", l.Code, err)
		}
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Load(ctx context.Context, projectID string) (*domain.Budget, domain.PriceDatabase, error) {
	var name string
	err := r.database.QueryRowContext(ctx,
		`SELECT name FROM projects WHERE id = ?`, projectID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading project: %w", err)
	}

	nodes, roots, err := r.loadNodes(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if err := r.loadMeasurements(ctx, projectID, nodes); err != nil {
		return nil, nil, err
	}

	prices, err := r.loadPrices(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if err := r.loadBreakdowns(ctx, projectID, nodes, prices); err != nil {
		return nil, nil, err
	}

	return &domain.Budget{ID: projectID, Name: name, Chapters: roots}, prices, nil
}

func (r *SQLiteSnapshotRepo) loadNodes(ctx context.Context, projectID string) (map[string]*domain.Node, []*domain.Node, error) {
	rows, err := r.database.QueryContext(ctx,
		`SELECT id, parent_id, slot, code, description, full_description, unit, price
		FROM budget_nodes WHERE project_id = ? ORDER BY order_index`, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading nodes: %w", err)
	}
	defer rows.Close()

	type rawNode struct {
		node   *domain.Node
		parent sql.NullString
		slot   string
	}
	var raw []rawNode
	nodes := map[string]*domain.Node{}
	for rows.Next() {
		var rn rawNode
		rn.node = &domain.Node{}
		if err := rows.Scan(&rn.node.ID, &rn.parent, &rn.slot, &rn.node.Code,
			&rn.node.Description, &rn.node.FullDescription, &rn.node.Unit, &rn.node.Price); err != nil {
			return nil, nil, fmt.Errorf("scanning node: %w", err)
		}
		raw = append(raw, rn)
		nodes[rn.node.ID] = rn.node
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating nodes: %w", err)
	}

	var roots []*domain.Node
	for _, rn := range raw {
		if !rn.parent.Valid {
			roots = append(roots, rn.node)
			continue
		}
		parent := nodes[rn.parent.String]
		if parent == nil {
			continue
		}
		if rn.slot == "chapter" {
			parent.SubChapters = append(parent.SubChapters, rn.node)
		} else {
			parent.Items = append(parent.Items, rn.node)
		}
	}
	return nodes, roots, nil
}

func (r *SQLiteSnapshotRepo) loadMeasurements(ctx context.Context, projectID string, nodes map[string]*domain.Node) error {
	rows, err := r.database.QueryContext(ctx,
		`SELECT m.id, m.node_id, m.description, m.units, m.length, m.width, m.height, m.is_increment
		FROM node_measurements m
		JOIN budget_nodes n ON n.id = m.node_id
		WHERE n.project_id = ? ORDER BY m.order_index`, projectID)
	if err != nil {
		return fmt.Errorf("loading measurements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.Measurement
		var nodeID string
		var inc int
		if err := rows.Scan(&m.ID, &nodeID, &m.Description, &m.Units, &m.Length, &m.Width, &m.Height, &inc); err != nil {
			return fmt.Errorf("scanning measurement: %w", err)
		}
		m.IsIncrement = intToBool(inc)
		if node := nodes[nodeID]; node != nil {
			node.Measurements = append(node.Measurements, m)
		}
	}
	return rows.Err()
}

func (r *SQLiteSnapshotRepo) loadPrices(ctx context.Context, projectID string) (domain.PriceDatabase, error) {
	rows, err := r.database.QueryContext(ctx,
		`SELECT norm_code, code, unit, summary, price FROM price_entries WHERE project_id = ?`, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading price entries: %w", err)
	}
	defer rows.Close()

	prices := domain.PriceDatabase{}
	for rows.Next() {
		var norm string
		var entry domain.PriceEntry
		if err := rows.Scan(&norm, &entry.Code, &entry.Unit, &entry.Summary, &entry.Price); err != nil {
			return nil, fmt.Errorf("scanning price entry: %w", err)
		}
		prices[norm] = entry
	}
	return prices, rows.Err()
}

func (r *SQLiteSnapshotRepo) loadBreakdowns(ctx context.Context, projectID string, nodes map[string]*domain.Node, prices domain.PriceDatabase) error {
	rows, err := r.database.QueryContext(ctx,
		`SELECT owner_node, owner_code, code, description, unit, yield, price, total
		FROM breakdown_lines WHERE project_id = ? ORDER BY order_index`, projectID)
	if err != nil {
		return fmt.Errorf("loading breakdown lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ownerNode, ownerCode sql.NullString
		var l domain.BreakdownLine
		if err := rows.Scan(&ownerNode, &ownerCode, &l.Code, &l.Description, &l.Unit, &l.Yield, &l.Price, &l.Total); err != nil {
			return fmt.Errorf("scanning breakdown line: %w", err)
		}
		switch {
		case ownerNode.Valid:
			if node := nodes[ownerNode.String]; node != nil {
				node.Breakdown = append(node.Breakdown, l)
			}
		case ownerCode.Valid:
			if entry, ok := prices[ownerCode.String]; ok {
				entry.Breakdown = append(entry.Breakdown, l)
				prices[ownerCode.String] = entry
			}
		}
	}
	return rows.Err()
}
