package fleet

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/infrastructure/database"
	"github.com/nerrad567/impt/internal/resolver"
)

// Device group types known to the platform.
const (
	GroupDevelopment   = "development"
	GroupPreFactory    = "pre-factory"
	GroupPreProduction = "pre-production"
	GroupFactory       = "factory"
	GroupProduction    = "production"
)

// GroupTypes lists every valid device group type.
var GroupTypes = []string{GroupDevelopment, GroupPreFactory, GroupPreProduction, GroupFactory, GroupProduction}

// Extra attribute keys stored alongside the shared entity attributes.
const (
	AttrDescription = "description"
	AttrCreatedAt   = "created_at"
	AttrRestartedAt = "restarted_at"
)

// agentIDBytes encodes to exactly 12 base64url characters.
const agentIDBytes = 9

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// table describes how one entity type is read from the schema.
type table struct {
	query string
	// columns maps filterable attributes to SQL columns.
	columns map[string]string
	// ownerColumn and productColumn implement resolver.Scope. An empty
	// column means the scope field does not apply to the type.
	ownerColumn   string
	productColumn string
	order         string
	scan          func(rowScanner) (*entity.Entity, error)
}

var tables = map[entity.Type]table{
	entity.TypeAccount: {
		query: `SELECT a.id, a.username, a.email, a.created_at FROM accounts a`,
		columns: map[string]string{
			entity.AttrID:       "a.id",
			entity.AttrUsername: "a.username",
			entity.AttrEmail:    "a.email",
		},
		order: "a.username, a.id",
		scan:  scanAccount,
	},
	entity.TypeProduct: {
		query: `SELECT p.id, p.name, p.description, p.owner_id, p.created_at FROM products p`,
		columns: map[string]string{
			entity.AttrID:   "p.id",
			entity.AttrName: "p.name",
		},
		ownerColumn:   "p.owner_id",
		productColumn: "p.id",
		order:         "p.name, p.id",
		scan:          scanProduct,
	},
	entity.TypeDeviceGroup: {
		query: `SELECT g.id, g.name, g.type, g.description, g.product_id, p.owner_id, g.created_at
			FROM device_groups g JOIN products p ON p.id = g.product_id`,
		columns: map[string]string{
			entity.AttrID:   "g.id",
			entity.AttrName: "g.name",
			entity.AttrType: "g.type",
		},
		ownerColumn:   "p.owner_id",
		productColumn: "g.product_id",
		order:         "g.name, g.id",
		scan:          scanGroup,
	},
	entity.TypeDevice: {
		query: `SELECT d.id, d.name, d.mac_address, d.agent_id, d.online, d.owner_id,
				COALESCE(d.group_id, ''), COALESCE(g.product_id, ''),
				COALESCE(d.restarted_at, ''), d.created_at
			FROM devices d LEFT JOIN device_groups g ON g.id = d.group_id`,
		columns: map[string]string{
			entity.AttrID:         "d.id",
			entity.AttrName:       "d.name",
			entity.AttrMACAddress: "d.mac_address",
			entity.AttrAgentID:    "d.agent_id",
		},
		ownerColumn:   "d.owner_id",
		productColumn: "g.product_id",
		order:         "d.name, d.id",
		scan:          scanDevice,
	},
}

// Repository is the SQLite implementation of the sandbox fleet store.
type Repository struct {
	db  *database.DB
	now func() time.Time
}

// NewRepository creates a repository on an opened and migrated database.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Find returns every entity of type t whose attribute equals value inside
// scope. An empty value matches nothing, so an unassigned device's empty
// agent id can never be looked up.
func (r *Repository) Find(ctx context.Context, t entity.Type, attribute, value string, scope resolver.Scope) ([]entity.Entity, error) {
	tbl, ok := tables[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, t)
	}
	column, ok := tbl.columns[attribute]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnsupportedAttribute, t, attribute)
	}
	if value == "" {
		return []entity.Entity{}, nil
	}

	where := []string{column + " = ?"}
	args := []any{value}
	if scope.OwnerID != "" && tbl.ownerColumn != "" {
		where = append(where, tbl.ownerColumn+" = ?")
		args = append(args, scope.OwnerID)
	}
	if scope.ProductID != "" && tbl.productColumn != "" {
		where = append(where, tbl.productColumn+" = ?")
		args = append(args, scope.ProductID)
	}

	query := tbl.query + " WHERE " + strings.Join(where, " AND ") + " ORDER BY " + tbl.order
	return r.queryEntities(ctx, tbl, query, args...)
}

// Get returns one entity by id, or the type's not-found error.
func (r *Repository) Get(ctx context.Context, t entity.Type, id string) (*entity.Entity, error) {
	found, err := r.Find(ctx, t, entity.AttrID, id, resolver.Scope{})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, notFound(t)
	}
	return &found[0], nil
}

// IsEmpty reports whether no account has been created yet.
func (r *Repository) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return false, fmt.Errorf("counting accounts: %w", err)
	}
	return n == 0, nil
}

// ListMembers returns the devices assigned to a device group, ordered by
// name. It fails with ErrGroupNotFound for an unknown group.
func (r *Repository) ListMembers(ctx context.Context, groupID string) ([]entity.Entity, error) {
	if _, err := r.Get(ctx, entity.TypeDeviceGroup, groupID); err != nil {
		return nil, err
	}
	tbl := tables[entity.TypeDevice]
	query := tbl.query + " WHERE d.group_id = ? ORDER BY " + tbl.order
	return r.queryEntities(ctx, tbl, query, groupID)
}

// CurrentDeployment returns the latest deployment of a device group, or nil
// if nothing was ever deployed to it.
func (r *Repository) CurrentDeployment(ctx context.Context, groupID string) (*entity.Build, error) {
	if _, err := r.Get(ctx, entity.TypeDeviceGroup, groupID); err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, sha, description, created_at
		FROM deployments WHERE group_id = ?
		ORDER BY seq DESC LIMIT 1
	`, groupID)

	var b entity.Build
	var createdAt string
	err := row.Scan(&b.ID, &b.SHA, &b.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying deployment: %w", err)
	}
	b.CreatedAt = parseTime(createdAt)
	return &b, nil
}

// CreateAccount registers an account.
func (r *Repository) CreateAccount(ctx context.Context, username, email string) (*entity.Entity, error) {
	if username == "" || email == "" {
		return nil, ErrNameRequired
	}
	id := generateID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, username, email, created_at) VALUES (?, ?, ?, ?)`,
		id, username, email, r.timestamp(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("inserting account: %w", err)
	}
	return r.Get(ctx, entity.TypeAccount, id)
}

// CreateProduct creates a product owned by ownerID.
func (r *Repository) CreateProduct(ctx context.Context, ownerID, name, description string) (*entity.Entity, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if _, err := r.Get(ctx, entity.TypeAccount, ownerID); err != nil {
		return nil, err
	}

	id := generateID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, owner_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, description, ownerID, r.timestamp(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrProductExists
		}
		return nil, fmt.Errorf("inserting product: %w", err)
	}
	return r.Get(ctx, entity.TypeProduct, id)
}

// CreateDeviceGroup creates a device group inside a product. An empty
// groupType means development.
func (r *Repository) CreateDeviceGroup(ctx context.Context, productID, name, groupType, description string) (*entity.Entity, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if groupType == "" {
		groupType = GroupDevelopment
	}
	if !validGroupType(groupType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGroupType, groupType)
	}
	if _, err := r.Get(ctx, entity.TypeProduct, productID); err != nil {
		return nil, err
	}

	id := generateID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO device_groups (id, name, type, description, product_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, groupType, description, productID, r.timestamp(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrGroupExists
		}
		return nil, fmt.Errorf("inserting device group: %w", err)
	}
	return r.Get(ctx, entity.TypeDeviceGroup, id)
}

// CreateDevice registers an unassigned device for ownerID. The MAC address
// is stored in its normalised form.
func (r *Repository) CreateDevice(ctx context.Context, ownerID, name, mac string) (*entity.Entity, error) {
	if !resolver.IsMACAddress(mac) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMACAddress, mac)
	}
	if _, err := r.Get(ctx, entity.TypeAccount, ownerID); err != nil {
		return nil, err
	}

	id := generateID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO devices (id, name, mac_address, owner_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, resolver.NormaliseMAC(mac), ownerID, r.timestamp(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDeviceExists
		}
		return nil, fmt.Errorf("inserting device: %w", err)
	}
	return r.Get(ctx, entity.TypeDevice, id)
}

// AssignDevice moves a device into a device group and issues it a new
// agent id, also when it was already assigned elsewhere.
func (r *Repository) AssignDevice(ctx context.Context, deviceID, groupID string) (*entity.Entity, error) {
	if _, err := r.Get(ctx, entity.TypeDeviceGroup, groupID); err != nil {
		return nil, err
	}
	agentID, err := generateAgentID()
	if err != nil {
		return nil, err
	}
	if err := r.updateDevice(ctx,
		`UPDATE devices SET group_id = ?, agent_id = ? WHERE id = ?`,
		groupID, agentID, deviceID,
	); err != nil {
		return nil, err
	}
	return r.Get(ctx, entity.TypeDevice, deviceID)
}

// UnassignDevice removes a device from its group and clears its agent id.
// Unassigning an unassigned device is not an error.
func (r *Repository) UnassignDevice(ctx context.Context, deviceID string) (*entity.Entity, error) {
	if err := r.updateDevice(ctx,
		`UPDATE devices SET group_id = NULL, agent_id = '' WHERE id = ?`,
		deviceID,
	); err != nil {
		return nil, err
	}
	return r.Get(ctx, entity.TypeDevice, deviceID)
}

// RenameDevice changes a device's name. Names need not be unique.
func (r *Repository) RenameDevice(ctx context.Context, deviceID, name string) (*entity.Entity, error) {
	if err := r.updateDevice(ctx, `UPDATE devices SET name = ? WHERE id = ?`, name, deviceID); err != nil {
		return nil, err
	}
	return r.Get(ctx, entity.TypeDevice, deviceID)
}

// MarkRestarted records when a restart was requested for a device.
func (r *Repository) MarkRestarted(ctx context.Context, deviceID string) error {
	return r.updateDevice(ctx, `UPDATE devices SET restarted_at = ? WHERE id = ?`, r.timestamp(), deviceID)
}

// SetOnline records a device's connectivity as reported over MQTT.
func (r *Repository) SetOnline(ctx context.Context, deviceID string, online bool) error {
	return r.updateDevice(ctx, `UPDATE devices SET online = ? WHERE id = ?`, boolToInt(online), deviceID)
}

// DeleteDevice removes a device. An assigned device is only removed with
// force.
func (r *Repository) DeleteDevice(ctx context.Context, deviceID string, force bool) error {
	device, err := r.Get(ctx, entity.TypeDevice, deviceID)
	if err != nil {
		return err
	}
	if _, assigned := device.Related(entity.TypeDeviceGroup); assigned && !force {
		return ErrDeviceAssigned
	}
	return r.updateDevice(ctx, `DELETE FROM devices WHERE id = ?`, deviceID)
}

// DeleteProduct removes a product. A product that still has device groups
// is only removed with force, which unassigns their devices and deletes the
// groups and their deployments in the same transaction.
func (r *Repository) DeleteProduct(ctx context.Context, productID string, force bool) error {
	if _, err := r.Get(ctx, entity.TypeProduct, productID); err != nil {
		return err
	}

	return r.db.InTx(ctx, func(tx *sql.Tx) error {
		var groups int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM device_groups WHERE product_id = ?`, productID,
		).Scan(&groups); err != nil {
			return fmt.Errorf("counting device groups: %w", err)
		}
		if groups > 0 && !force {
			return ErrProductInUse
		}

		steps := []struct {
			what  string
			query string
		}{
			{"unassigning devices", `UPDATE devices SET group_id = NULL, agent_id = ''
				WHERE group_id IN (SELECT id FROM device_groups WHERE product_id = ?)`},
			{"deleting device groups", `DELETE FROM device_groups WHERE product_id = ?`},
			{"deleting product", `DELETE FROM products WHERE id = ?`},
		}
		for _, s := range steps {
			if _, err := tx.ExecContext(ctx, s.query, productID); err != nil {
				return fmt.Errorf("%s: %w", s.what, err)
			}
		}
		return nil
	})
}

// Deploy records a new build for a device group; it becomes the group's
// current deployment.
func (r *Repository) Deploy(ctx context.Context, groupID, sha, description string) (*entity.Build, error) {
	if _, err := r.Get(ctx, entity.TypeDeviceGroup, groupID); err != nil {
		return nil, err
	}

	now := r.now().UTC().Truncate(time.Second)
	b := &entity.Build{
		ID:          generateID(),
		SHA:         sha,
		Description: description,
		CreatedAt:   now,
	}
	err := r.db.InTx(ctx, func(tx *sql.Tx) error {
		var seq int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(seq), 0) + 1 FROM deployments WHERE group_id = ?`, groupID,
		).Scan(&seq); err != nil {
			return fmt.Errorf("reading deployment sequence: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO deployments (id, group_id, sha, description, created_at, seq) VALUES (?, ?, ?, ?, ?, ?)`,
			b.ID, groupID, sha, description, now.Format(time.RFC3339), seq,
		); err != nil {
			return fmt.Errorf("inserting deployment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// updateDevice runs a single-row statement against devices and maps zero
// affected rows to ErrDeviceNotFound.
func (r *Repository) updateDevice(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating device: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

func (r *Repository) queryEntities(ctx context.Context, tbl table, query string, args ...any) ([]entity.Entity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	out := []entity.Entity{}
	for rows.Next() {
		e, err := tbl.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}
	return out, nil
}

func (r *Repository) timestamp() string {
	return r.now().UTC().Format(time.RFC3339)
}

func scanAccount(row rowScanner) (*entity.Entity, error) {
	var id, username, email, createdAt string
	if err := row.Scan(&id, &username, &email, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning account: %w", err)
	}
	return &entity.Entity{
		Type: entity.TypeAccount,
		ID:   id,
		Name: username,
		Attributes: map[string]string{
			entity.AttrUsername: username,
			entity.AttrEmail:    email,
			AttrCreatedAt:       createdAt,
		},
	}, nil
}

func scanProduct(row rowScanner) (*entity.Entity, error) {
	var id, name, description, ownerID, createdAt string
	if err := row.Scan(&id, &name, &description, &ownerID, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	e := &entity.Entity{
		Type:       entity.TypeProduct,
		ID:         id,
		Name:       name,
		Attributes: map[string]string{AttrCreatedAt: createdAt},
		Relations:  map[entity.Type]string{entity.TypeAccount: ownerID},
	}
	setIfNotEmpty(e.Attributes, AttrDescription, description)
	return e, nil
}

func scanGroup(row rowScanner) (*entity.Entity, error) {
	var id, name, groupType, description, productID, ownerID, createdAt string
	if err := row.Scan(&id, &name, &groupType, &description, &productID, &ownerID, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning device group: %w", err)
	}
	e := &entity.Entity{
		Type: entity.TypeDeviceGroup,
		ID:   id,
		Name: name,
		Attributes: map[string]string{
			entity.AttrType: groupType,
			AttrCreatedAt:   createdAt,
		},
		Relations: map[entity.Type]string{
			entity.TypeProduct: productID,
			entity.TypeAccount: ownerID,
		},
	}
	setIfNotEmpty(e.Attributes, AttrDescription, description)
	return e, nil
}

func scanDevice(row rowScanner) (*entity.Entity, error) {
	var (
		id, name, mac, agentID, ownerID string
		groupID, productID              string
		restartedAt, createdAt          string
		online                          int
	)
	if err := row.Scan(&id, &name, &mac, &agentID, &online, &ownerID,
		&groupID, &productID, &restartedAt, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning device: %w", err)
	}

	e := &entity.Entity{
		Type: entity.TypeDevice,
		ID:   id,
		Name: name,
		Attributes: map[string]string{
			entity.AttrMACAddress: mac,
			entity.AttrAgentID:    agentID,
			entity.AttrOnline:     strconv.FormatBool(online != 0),
			AttrCreatedAt:         createdAt,
		},
		Relations: map[entity.Type]string{entity.TypeAccount: ownerID},
	}
	setIfNotEmpty(e.Attributes, AttrRestartedAt, restartedAt)
	setIfNotEmpty(e.Relations, entity.TypeDeviceGroup, groupID)
	setIfNotEmpty(e.Relations, entity.TypeProduct, productID)
	return e, nil
}

func setIfNotEmpty[K comparable](m map[K]string, key K, value string) {
	if value != "" {
		m[key] = value
	}
}

func notFound(t entity.Type) error {
	switch t {
	case entity.TypeAccount:
		return ErrAccountNotFound
	case entity.TypeProduct:
		return ErrProductNotFound
	case entity.TypeDeviceGroup:
		return ErrGroupNotFound
	default:
		return ErrDeviceNotFound
	}
}

func validGroupType(s string) bool {
	for _, t := range GroupTypes {
		if s == t {
			return true
		}
	}
	return false
}

// generateID returns a new entity id.
func generateID() string {
	return uuid.New().String()
}

// generateAgentID returns a random 12-character agent id in the
// [A-Za-z0-9_-] alphabet.
func generateAgentID() (string, error) {
	b := make([]byte, agentIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating agent id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s) //nolint:errcheck // Written by this package
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint
// violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
