package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"court-admin/internal/domain"
)

// countFanOut caps the concurrent staff count queries of one listing.
const countFanOut = 8

type CourtService struct {
	repos domain.Repositories
	log   *zap.Logger
}

func NewCourtService(repos domain.Repositories, l *zap.Logger) *CourtService {
	if l == nil {
		l = zap.NewNop()
	}
	return &CourtService{repos: repos, log: l}
}

func (s *CourtService) All(ctx context.Context) ([]domain.Court, error) {
	return s.repos.Courts.Find(ctx, domain.CourtFilter{})
}

func (s *CourtService) create(ctx context.Context, c *domain.Court) (*domain.Court, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Courts.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("Court already exists", err)
		}
		return nil, err
	}
	s.log.Info("court created", zap.String("court_id", c.ID), zap.String("type", string(c.Type)))
	return c, nil
}

func (s *CourtService) CreateCircuit(ctx context.Context, d domain.CourtDetails) (*domain.Court, error) {
	return s.create(ctx, domain.NewCircuitCourt(d))
}

func (s *CourtService) CreateDepartment(ctx context.Context, d domain.CourtDetails) (*domain.Court, error) {
	return s.create(ctx, domain.NewDepartment(d))
}

func (s *CourtService) CreateMagisterial(ctx context.Context, circuitID string, d domain.CourtDetails) (*domain.Court, error) {
	if _, err := s.requireCircuit(ctx, circuitID); err != nil {
		return nil, err
	}
	return s.create(ctx, domain.NewMagisterialCourt(circuitID, d))
}

// requireCircuit rejects anything but an existing circuit court as a parent.
func (s *CourtService) requireCircuit(ctx context.Context, id string) (*domain.Court, error) {
	if !domain.ValidID(id) {
		return nil, domain.Validation("Invalid circuit court")
	}
	c, err := s.repos.Courts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.Type != domain.CourtCircuit {
		return nil, domain.Validation("Invalid circuit court")
	}
	return c, nil
}

// Circuits lists active circuit courts with their direct staff count.
func (s *CourtService) Circuits(ctx context.Context) ([]domain.CourtSummary, error) {
	return s.summaries(ctx, domain.CourtFilter{Type: domain.CourtCircuit, ActiveOnly: true})
}

func (s *CourtService) Departments(ctx context.Context) ([]domain.CourtSummary, error) {
	return s.summaries(ctx, domain.CourtFilter{Type: domain.CourtDepartment, ActiveOnly: true})
}

func (s *CourtService) Magisterial(ctx context.Context) ([]domain.CourtSummary, error) {
	return s.summaries(ctx, domain.CourtFilter{Type: domain.CourtMagisterial})
}

func (s *CourtService) MagisterialByCircuit(ctx context.Context, circuitID string) ([]domain.CourtSummary, error) {
	if err := domain.RequireID(circuitID, "circuit"); err != nil {
		return nil, err
	}
	return s.summaries(ctx, domain.CourtFilter{
		Type:           domain.CourtMagisterial,
		CircuitCourtID: circuitID,
		ActiveOnly:     true,
	})
}

func (s *CourtService) summaries(ctx context.Context, f domain.CourtFilter) ([]domain.CourtSummary, error) {
	courts, err := s.repos.Courts.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	counts, err := s.staffCounts(ctx, courts)
	if err != nil {
		return nil, err
	}
	parents, err := s.parents(ctx, courts)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CourtSummary, len(courts))
	for i, c := range courts {
		out[i] = domain.CourtSummary{ID: c.ID, Name: c.Name, StaffCount: counts[i]}
		if c.Type != domain.CourtMagisterial {
			continue
		}
		// 上级已被删除时两个字段都为 null
		if p, ok := parents[deref(c.CircuitCourtID)]; ok {
			out[i].CircuitCourt = &p.Name
			out[i].CircuitCourtID = &p.ID
		}
	}
	return out, nil
}

// staffCounts counts direct staff per court concurrently; results keep the
// order of courts.
func (s *CourtService) staffCounts(ctx context.Context, courts []domain.Court) ([]int64, error) {
	counts := make([]int64, len(courts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countFanOut)
	for i := range courts {
		i := i
		g.Go(func() error {
			n, err := s.repos.Staff.Count(gctx, domain.StaffFilter{CourtID: courts[i].ID})
			if err != nil {
				return err
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// parents loads the circuit courts referenced by magisterial courts in one query.
func (s *CourtService) parents(ctx context.Context, courts []domain.Court) (map[string]*domain.Court, error) {
	seen := map[string]struct{}{}
	var ids []string
	for _, c := range courts {
		if c.CircuitCourtID == nil {
			continue
		}
		if _, ok := seen[*c.CircuitCourtID]; !ok {
			seen[*c.CircuitCourtID] = struct{}{}
			ids = append(ids, *c.CircuitCourtID)
		}
	}
	out := make(map[string]*domain.Court, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := s.repos.Courts.Find(ctx, domain.CourtFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	for i := range found {
		out[found[i].ID] = &found[i]
	}
	return out, nil
}

func (s *CourtService) view(ctx context.Context, c *domain.Court) (*domain.CourtView, error) {
	v := &domain.CourtView{Court: *c}
	if c.CircuitCourtID == nil {
		return v, nil
	}
	p, err := s.repos.Courts.FindByID(ctx, *c.CircuitCourtID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		v.CircuitCourt = p.Ref()
	}
	return v, nil
}

func (s *CourtService) find(ctx context.Context, id string, want domain.CourtType, notFound string) (*domain.Court, error) {
	if err := domain.RequireID(id, "court"); err != nil {
		return nil, err
	}
	c, err := s.repos.Courts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || (want != "" && c.Type != want) {
		return nil, domain.NotFound(notFound)
	}
	return c, nil
}

// Get returns one court with its parent circuit expanded.
func (s *CourtService) Get(ctx context.Context, id string) (*domain.CourtView, error) {
	c, err := s.find(ctx, id, "", "Court not found")
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

func (s *CourtService) save(ctx context.Context, c *domain.Court, p domain.CourtPatch) (*domain.CourtView, error) {
	p.Apply(c)
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Courts.Update(ctx, c); err != nil {
		if errors.Is(err, domain.ErrNoRecord) {
			return nil, domain.NotFound("Court not found")
		}
		return nil, err
	}
	return s.view(ctx, c)
}

// Update changes the descriptive fields of any court.
func (s *CourtService) Update(ctx context.Context, id string, p domain.CourtPatch) (*domain.CourtView, error) {
	c, err := s.find(ctx, id, "", "Court not found")
	if err != nil {
		return nil, err
	}
	return s.save(ctx, c, p)
}

// UpdateMagisterial may also move the court under another circuit.
func (s *CourtService) UpdateMagisterial(ctx context.Context, id string, circuitID *string, p domain.CourtPatch) (*domain.CourtView, error) {
	c, err := s.find(ctx, id, domain.CourtMagisterial, "Magisterial court not found")
	if err != nil {
		return nil, err
	}
	if circuitID != nil && *circuitID != "" {
		if _, err := s.requireCircuit(ctx, *circuitID); err != nil {
			return nil, err
		}
		parent := *circuitID
		c.CircuitCourtID = &parent
	}
	return s.save(ctx, c, p)
}

func (s *CourtService) UpdateDepartment(ctx context.Context, id string, p domain.CourtPatch) (*domain.CourtView, error) {
	c, err := s.find(ctx, id, domain.CourtDepartment, "Department not found")
	if err != nil {
		return nil, err
	}
	return s.save(ctx, c, p)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
