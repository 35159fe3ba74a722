package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// ResidentRepository resolves reporters to their units.
type ResidentRepository interface {
	Add(ctx context.Context, resident domain.Resident)
	FindByName(ctx context.Context, name string) (*domain.Resident, bool)
	List(ctx context.Context) []domain.Resident
}

type residentDirectory struct {
	mu        sync.RWMutex
	residents []domain.Resident
}

// NewResidentDirectory builds an in-memory directory seeded with residents.
func NewResidentDirectory(residents ...domain.Resident) ResidentRepository {
	return &residentDirectory{residents: append([]domain.Resident(nil), residents...)}
}

func (d *residentDirectory) Add(_ context.Context, resident domain.Resident) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.residents = append(d.residents, resident)
}

// FindByName returns the first resident whose name matches exactly after
// trimming surrounding whitespace.
func (d *residentDirectory) FindByName(_ context.Context, name string) (*domain.Resident, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := range d.residents {
		if d.residents[i].Name == name {
			resident := d.residents[i]
			return &resident, true
		}
	}
	return nil, false
}

func (d *residentDirectory) List(_ context.Context) []domain.Resident {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]domain.Resident(nil), d.residents...)
}
