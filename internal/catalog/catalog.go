package catalog

import (
	"errors"
	"fmt"
	"os"

	"jamservices/internal/models"

	"gopkg.in/yaml.v3"
)

// Catalog is the read-only listing of services and bookable time slots.
type Catalog struct {
	services  []models.Service
	byID      map[string]int
	timeSlots []string
	slotSet   map[string]struct{}
}

type fileFormat struct {
	Services  []models.Service `yaml:"services"`
	TimeSlots []string         `yaml:"time_slots"`
}

// New builds a catalog. Subcategories without a fee get models.DefaultPlatformFee.
func New(services []models.Service, timeSlots []string) *Catalog {
	c := &Catalog{
		services:  make([]models.Service, 0, len(services)),
		byID:      make(map[string]int, len(services)),
		timeSlots: append([]string(nil), timeSlots...),
		slotSet:   make(map[string]struct{}, len(timeSlots)),
	}
	for _, svc := range services {
		subs := make([]models.Subcategory, len(svc.Subcategories))
		for i, sub := range svc.Subcategories {
			if sub.PlatformFee == 0 {
				sub.PlatformFee = models.DefaultPlatformFee
			}
			subs[i] = sub
		}
		svc.Subcategories = subs
		c.byID[svc.ID] = len(c.services)
		c.services = append(c.services, svc)
	}
	for _, slot := range timeSlots {
		c.slotSet[slot] = struct{}{}
	}
	return c
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var raw fileFormat
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := New(raw.Services, raw.TimeSlots)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}
	return c, nil
}

// Validate checks ids are present and unique. Subcategory ids only need to be
// unique inside their service since lookups are scoped by service.
func (c *Catalog) Validate() error {
	if len(c.services) == 0 {
		return errors.New("catalog has no services")
	}
	if len(c.timeSlots) == 0 {
		return errors.New("catalog has no time slots")
	}

	seen := make(map[string]bool, len(c.services))
	for _, svc := range c.services {
		if svc.ID == "" {
			return fmt.Errorf("service '%s' has empty id", svc.Name)
		}
		if seen[svc.ID] {
			return fmt.Errorf("duplicate service id found: %s", svc.ID)
		}
		seen[svc.ID] = true

		subs := make(map[string]bool, len(svc.Subcategories))
		for _, sub := range svc.Subcategories {
			if sub.ID == "" {
				return fmt.Errorf("subcategory '%s' of service %s has empty id", sub.Name, svc.ID)
			}
			if subs[sub.ID] {
				return fmt.Errorf("duplicate subcategory id %s in service %s", sub.ID, svc.ID)
			}
			if sub.Price < 0 || sub.PlatformFee < 0 {
				return fmt.Errorf("subcategory %s/%s has a negative amount", svc.ID, sub.ID)
			}
			subs[sub.ID] = true
		}
	}

	slots := make(map[string]bool, len(c.timeSlots))
	for _, slot := range c.timeSlots {
		if slots[slot] {
			return fmt.Errorf("duplicate time slot: %s", slot)
		}
		slots[slot] = true
	}
	return nil
}

// Services returns every service in catalog order.
func (c *Catalog) Services() []models.Service {
	out := make([]models.Service, len(c.services))
	for i, svc := range c.services {
		out[i] = copyService(svc)
	}
	return out
}

// Service looks a service up by id.
func (c *Catalog) Service(id string) (models.Service, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return models.Service{}, false
	}
	return copyService(c.services[idx]), true
}

// Subcategory looks a subcategory up by the (service, subcategory) pair.
func (c *Catalog) Subcategory(serviceID, subcategoryID string) (models.Subcategory, bool) {
	idx, ok := c.byID[serviceID]
	if !ok {
		return models.Subcategory{}, false
	}
	return c.services[idx].FindSubcategory(subcategoryID)
}

// TimeSlots returns the fixed slot labels in display order.
func (c *Catalog) TimeSlots() []string {
	return append([]string(nil), c.timeSlots...)
}

// IsTimeSlot reports whether label is one of the catalog slots.
func (c *Catalog) IsTimeSlot(label string) bool {
	_, ok := c.slotSet[label]
	return ok
}

func copyService(svc models.Service) models.Service {
	svc.Subcategories = append([]models.Subcategory(nil), svc.Subcategories...)
	return svc
}
