package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/tutor"
)

type tutorRepository struct {
	db *tutorTable
}

var _ tutor.Repository = (*tutorRepository)(nil) // interface compliance check

func NewTutorRepository(db *DB) tutor.Repository {
	return &tutorRepository{db: db.tutor}
}

func (repo *tutorRepository) query() []tutor.Tutor {
	tutors := make([]tutor.Tutor, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		tutors = append(tutors, *t)
	}
	sort.Slice(tutors, func(i, j int) bool { return tutors[i].CreatedAt.After(tutors[j].CreatedAt) })
	return tutors
}

func (repo *tutorRepository) CheckEmailUniqueness(_ context.Context, email string, excludedTutors []tutor.Tutor, _ ...core.DBExecutor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := make(map[string]bool, len(excludedTutors))
	for _, t := range excludedTutors {
		excluded[t.ID] = true
	}
	for _, t := range repo.db.table {
		if t.Email == email && !excluded[t.ID] {
			return tutor.ErrEmailExists
		}
	}
	return nil
}

func (repo *tutorRepository) CreateTutor(_ context.Context, tut tutor.Tutor, _ ...core.DBExecutor) (tutor.Tutor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tut.ID = uuid.New().String()
	repo.db.table[tut.ID] = &tut
	return tut, nil
}

func (repo *tutorRepository) QueryTutors(_ context.Context, filter *tutor.QueryFilter, _ []core.DBOrdering, page core.PageQuery, _ ...core.DBExecutor) ([]tutor.Tutor, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var tutors []tutor.Tutor
	for _, t := range repo.query() {
		if filter != nil {
			if filter.Search != "" &&
				!(containsFold(t.Name, filter.Search) || containsFold(t.Email, filter.Search) || containsFold(t.Subject, filter.Search)) {
				continue
			}
			if filter.Status != "" && t.Status != filter.Status {
				continue
			}
			if filter.Subject != "" && !containsFold(t.Subject, filter.Subject) {
				continue
			}
			if filter.Featured != nil && t.Featured != *filter.Featured {
				continue
			}
			if !inWindow(t.CreatedAt, filter.CreatedFrom, filter.CreatedTo) {
				continue
			}
		}
		tutors = append(tutors, t)
	}

	total := len(tutors)
	page.Clean()
	lo, hi := paginate(total, page.Limit, page.Offset())
	return tutors[lo:hi], total, nil
}

func (repo *tutorRepository) GetTutorByID(_ context.Context, id string, _ ...core.DBExecutor) (tutor.Tutor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tut, ok := repo.db.table[id]; ok {
		return *tut, nil
	}
	return tutor.Tutor{}, tutor.ErrNotFound
}

func (repo *tutorRepository) UpdateTutor(_ context.Context, tut tutor.Tutor, _ ...core.DBExecutor) (tutor.Tutor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[tut.ID]; !ok {
		return tutor.Tutor{}, tutor.ErrNotFound
	}
	repo.db.table[tut.ID] = &tut
	return tut, nil
}

func (repo *tutorRepository) DeleteTutorsByID(_ context.Context, ids []string, _ ...core.DBExecutor) (int, error) {
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
