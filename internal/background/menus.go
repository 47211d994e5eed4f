package background

import (
	"errors"
	"slices"
	"sync"
)

var ErrUnknownMenuItem = errors.New("unknown menu item")

// MenuItem is a context menu entry.
type MenuItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Contexts []string `json:"contexts"`
}

// MenuRegistry holds the context menu entries offered to the host.
type MenuRegistry interface {
	Create(item MenuItem) error
	Items() []MenuItem
	Lookup(id string) (MenuItem, error)
}

// Menus is an in-memory MenuRegistry. Creating an existing id replaces it.
type Menus struct {
	mu    sync.RWMutex
	items []MenuItem
}

func NewMenus() *Menus {
	return &Menus{}
}

func (m *Menus) Create(item MenuItem) error {
	if item.ID == "" {
		return errors.New("menu item id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i] = item
			return nil
		}
	}
	m.items = append(m.items, item)
	return nil
}

func (m *Menus) Items() []MenuItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.items)
}

// Lookup returns the item registered under id.
func (m *Menus) Lookup(id string) (MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := slices.IndexFunc(m.items, func(it MenuItem) bool { return it.ID == id })
	if i < 0 {
		return MenuItem{}, ErrUnknownMenuItem
	}
	return m.items[i], nil
}
