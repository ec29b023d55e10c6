package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"court-admin/internal/domain"
)

// RecycleBin moves staff and courts between the live store and the archive.
//
// Every delete writes the archive entry before touching live records, so a
// failed archive write leaves the live data intact. The steps after that are
// not transactional: a failure halfway through a cascade is reported as an
// internal error and has to be reconciled by hand from the recycle bin list.
type RecycleBin struct {
	repos domain.Repositories
	log   *zap.Logger
	now   func() time.Time
}

func NewRecycleBin(repos domain.Repositories, l *zap.Logger) *RecycleBin {
	if l == nil {
		l = zap.NewNop()
	}
	return &RecycleBin{repos: repos, log: l, now: time.Now}
}

// CascadeResult counts what a court delete removed besides the court itself.
type CascadeResult struct {
	ChildCourts  int   `json:"childCourts"`
	StaffRemoved int64 `json:"staffRemoved"`
}

func (b *RecycleBin) archive(ctx context.Context, t domain.EntityType, id string, doc any, actor string) error {
	e, err := domain.NewRecycleEntry(t, id, doc, actor, b.now())
	if err != nil {
		return fmt.Errorf("snapshot %s %s: %w", t, id, err)
	}
	if err := b.repos.RecycleBin.Create(ctx, e); err != nil {
		return fmt.Errorf("archive %s %s: %w", t, id, err)
	}
	recycleOps.WithLabelValues("archived", string(t)).Inc()
	return nil
}

// DeleteStaff archives one staff record and removes it.
func (b *RecycleBin) DeleteStaff(ctx context.Context, id, actor string) error {
	if err := domain.RequireID(id, "staff"); err != nil {
		return err
	}
	s, err := b.repos.Staff.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NotFound("Staff not found")
	}
	if err := b.archive(ctx, domain.EntityStaff, s.ID, s, actor); err != nil {
		return err
	}
	if err := b.repos.Staff.DeleteByID(ctx, s.ID); err != nil && !errors.Is(err, domain.ErrNoRecord) {
		return fmt.Errorf("delete staff %s: %w", s.ID, err)
	}
	b.log.Info("staff moved to recycle bin", zap.String("staff_id", s.ID), zap.String("actor", actor))
	return nil
}

// findCourt loads a court and checks its variant. A court of another type is
// reported the same way as a missing one.
func (b *RecycleBin) findCourt(ctx context.Context, id string, want domain.CourtType, notFound string) (*domain.Court, error) {
	if err := domain.RequireID(id, "court"); err != nil {
		return nil, err
	}
	c, err := b.repos.Courts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound(notFound)
	}
	if c.Type != want {
		return nil, domain.TypeMismatch(notFound)
	}
	return c, nil
}

// DeleteCircuitCourt archives the circuit court and removes it together with
// its direct staff, its magisterial courts and their staff. Only the circuit
// court itself is archived.
func (b *RecycleBin) DeleteCircuitCourt(ctx context.Context, id, actor string) (*CascadeResult, error) {
	court, err := b.findCourt(ctx, id, domain.CourtCircuit, "Circuit court not found")
	if err != nil {
		return nil, err
	}
	children, err := b.repos.Courts.Find(ctx, domain.CourtFilter{CircuitCourtID: court.ID})
	if err != nil {
		return nil, err
	}

	if err := b.archive(ctx, domain.EntityCourt, court.ID, court, actor); err != nil {
		return nil, err
	}

	res := &CascadeResult{}
	n, err := b.deleteStaffOf(ctx, court.ID)
	if err != nil {
		return nil, err
	}
	res.StaffRemoved += n
	for _, child := range children {
		n, err := b.deleteStaffOf(ctx, child.ID)
		if err != nil {
			return nil, err
		}
		res.StaffRemoved += n
		if err := b.deleteCourt(ctx, child.ID); err != nil {
			return nil, err
		}
		res.ChildCourts++
	}
	if err := b.deleteCourt(ctx, court.ID); err != nil {
		return nil, err
	}

	b.log.Info("circuit court moved to recycle bin",
		zap.String("court_id", court.ID),
		zap.Int("child_courts", res.ChildCourts),
		zap.Int64("staff_removed", res.StaffRemoved),
		zap.String("actor", actor),
	)
	return res, nil
}

func (b *RecycleBin) DeleteMagisterialCourt(ctx context.Context, id, actor string) (*CascadeResult, error) {
	return b.deleteLeafCourt(ctx, id, actor, domain.CourtMagisterial, "Magisterial court not found")
}

func (b *RecycleBin) DeleteDepartment(ctx context.Context, id, actor string) (*CascadeResult, error) {
	return b.deleteLeafCourt(ctx, id, actor, domain.CourtDepartment, "Department not found")
}

func (b *RecycleBin) deleteLeafCourt(ctx context.Context, id, actor string, want domain.CourtType, notFound string) (*CascadeResult, error) {
	court, err := b.findCourt(ctx, id, want, notFound)
	if err != nil {
		return nil, err
	}
	if err := b.archive(ctx, domain.EntityCourt, court.ID, court, actor); err != nil {
		return nil, err
	}
	n, err := b.deleteStaffOf(ctx, court.ID)
	if err != nil {
		return nil, err
	}
	if err := b.deleteCourt(ctx, court.ID); err != nil {
		return nil, err
	}
	b.log.Info("court moved to recycle bin",
		zap.String("court_id", court.ID),
		zap.String("type", string(court.Type)),
		zap.Int64("staff_removed", n),
		zap.String("actor", actor),
	)
	return &CascadeResult{StaffRemoved: n}, nil
}

func (b *RecycleBin) deleteStaffOf(ctx context.Context, courtID string) (int64, error) {
	n, err := b.repos.Staff.DeleteMany(ctx, domain.StaffFilter{CourtID: courtID})
	if err != nil {
		b.log.Error("cascade: delete staff failed", zap.String("court_id", courtID), zap.Error(err))
		return 0, fmt.Errorf("delete staff of court %s: %w", courtID, err)
	}
	return n, nil
}

func (b *RecycleBin) deleteCourt(ctx context.Context, id string) error {
	if err := b.repos.Courts.DeleteByID(ctx, id); err != nil && !errors.Is(err, domain.ErrNoRecord) {
		b.log.Error("cascade: delete court failed", zap.String("court_id", id), zap.Error(err))
		return fmt.Errorf("delete court %s: %w", id, err)
	}
	return nil
}

// List returns all entries newest first with the deleting user expanded.
func (b *RecycleBin) List(ctx context.Context) ([]domain.RecycleView, error) {
	entries, err := b.repos.RecycleBin.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var ids []string
	for _, e := range entries {
		if e.DeletedBy == nil {
			continue
		}
		if _, ok := seen[*e.DeletedBy]; !ok {
			seen[*e.DeletedBy] = struct{}{}
			ids = append(ids, *e.DeletedBy)
		}
	}
	users := map[string]*domain.UserRef{}
	if len(ids) > 0 {
		found, err := b.repos.Users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range found {
			users[found[i].ID] = found[i].Ref()
		}
	}

	out := make([]domain.RecycleView, 0, len(entries))
	for _, e := range entries {
		v := domain.RecycleView{RecycleEntry: e}
		if e.DeletedBy != nil {
			v.DeletedBy = users[*e.DeletedBy]
		}
		out = append(out, v)
	}
	return out, nil
}

// Restore re-creates the archived document under its original id and
// removes the entry. References are not re-checked: a magisterial court
// whose circuit is gone comes back as is.
func (b *RecycleBin) Restore(ctx context.Context, id string) (*domain.RecycleEntry, error) {
	e, err := b.findEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	switch e.EntityType {
	case domain.EntityStaff:
		var s domain.Staff
		if err := json.Unmarshal(e.Data, &s); err != nil {
			return nil, fmt.Errorf("decode staff snapshot %s: %w", e.ID, err)
		}
		if s.ID == "" {
			s.ID = e.EntityID
		}
		err = b.repos.Staff.Create(ctx, &s)
	case domain.EntityCourt:
		var c domain.Court
		if err := json.Unmarshal(e.Data, &c); err != nil {
			return nil, fmt.Errorf("decode court snapshot %s: %w", e.ID, err)
		}
		if c.ID == "" {
			c.ID = e.EntityID
		}
		err = b.repos.Courts.Create(ctx, &c)
	default:
		return nil, domain.Validation("Unsupported entity type")
	}
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, domain.Conflict("A record with this ID already exists", err)
	}
	if err != nil {
		return nil, fmt.Errorf("restore %s %s: %w", e.EntityType, e.EntityID, err)
	}

	if err := b.repos.RecycleBin.DeleteByID(ctx, e.ID); err != nil {
		if errors.Is(err, domain.ErrNoRecord) {
			return nil, domain.NotFound("Recycle bin entry not found")
		}
		return nil, fmt.Errorf("remove recycle entry %s: %w", e.ID, err)
	}
	recycleOps.WithLabelValues("restored", string(e.EntityType)).Inc()
	b.log.Info("recycle bin entry restored",
		zap.String("entry_id", e.ID),
		zap.String("entity_type", string(e.EntityType)),
		zap.String("entity_id", e.EntityID),
	)
	return e, nil
}

// Purge permanently deletes an entry. Live records are not touched.
func (b *RecycleBin) Purge(ctx context.Context, id string) error {
	e, err := b.findEntry(ctx, id)
	if err != nil {
		return err
	}
	if err := b.repos.RecycleBin.DeleteByID(ctx, e.ID); err != nil {
		if errors.Is(err, domain.ErrNoRecord) {
			return domain.NotFound("Recycle bin entry not found")
		}
		return err
	}
	recycleOps.WithLabelValues("purged", string(e.EntityType)).Inc()
	b.log.Info("recycle bin entry purged", zap.String("entry_id", e.ID), zap.String("entity_id", e.EntityID))
	return nil
}

func (b *RecycleBin) findEntry(ctx context.Context, id string) (*domain.RecycleEntry, error) {
	if err := domain.RequireID(id, "recycle bin"); err != nil {
		return nil, err
	}
	e, err := b.repos.RecycleBin.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.NotFound("Recycle bin entry not found")
	}
	return e, nil
}
