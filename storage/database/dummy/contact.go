package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/contact"
)

type contactRepository struct {
	db *contactTable
}

var _ contact.Repository = (*contactRepository)(nil) // interface compliance check

func NewContactRepository(db *DB) contact.Repository {
	return &contactRepository{db: db.contact}
}

func (repo *contactRepository) query() []contact.Contact {
	contacts := make([]contact.Contact, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		contacts = append(contacts, *c)
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].CreatedAt.After(contacts[j].CreatedAt) })
	return contacts
}

func (repo *contactRepository) CreateContact(_ context.Context, c contact.Contact, _ ...core.DBExecutor) (contact.Contact, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.New().String()
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *contactRepository) QueryContacts(_ context.Context, filter *contact.QueryFilter, _ []core.DBOrdering, page core.PageQuery, _ ...core.DBExecutor) ([]contact.Contact, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var contacts []contact.Contact
	for _, c := range repo.query() {
		if filter != nil {
			if filter.Search != "" &&
				!(containsFold(c.Name, filter.Search) || containsFold(c.Email, filter.Search) || containsFold(c.Message, filter.Search)) {
				continue
			}
			if filter.Status != "" && c.Status != filter.Status {
				continue
			}
			if !inWindow(c.CreatedAt, filter.CreatedFrom, filter.CreatedTo) {
				continue
			}
		}
		contacts = append(contacts, c)
	}

	total := len(contacts)
	page.Clean()
	lo, hi := paginate(total, page.Limit, page.Offset())
	return contacts[lo:hi], total, nil
}

func (repo *contactRepository) GetContactByID(_ context.Context, id string, _ ...core.DBExecutor) (contact.Contact, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return contact.Contact{}, contact.ErrNotFound
}

func (repo *contactRepository) UpdateContact(_ context.Context, c contact.Contact, _ ...core.DBExecutor) (contact.Contact, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[c.ID]; !ok {
		return contact.Contact{}, contact.ErrNotFound
	}
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *contactRepository) DeleteContactsByID(_ context.Context, ids []string, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	n := 0
	for _, id := range ids {
		if _, ok := repo.db.table[id]; ok {
			delete(repo.db.table, id)
			n++
		}
	}
	return n, nil
}
