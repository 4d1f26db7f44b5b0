package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/submission"
)

type submissionRepository struct {
	db *submissionTable
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *DB) submission.Repository {
	return &submissionRepository{db: db.submission}
}

func (repo *submissionRepository) query() []submission.Submission {
	subs := make([]submission.Submission, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		subs = append(subs, *s)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.After(subs[j].CreatedAt) })
	return subs
}

func (repo *submissionRepository) CreateSubmission(_ context.Context, s submission.Submission, _ ...core.DBExecutor) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = uuid.New().String()
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *submissionRepository) QuerySubmissions(_ context.Context, filter *submission.QueryFilter, _ []core.DBOrdering, page core.PageQuery, _ ...core.DBExecutor) ([]submission.Submission, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var subs []submission.Submission
	for _, s := range repo.query() {
		if filter != nil {
			if filter.Search != "" &&
				!(containsFold(s.Name, filter.Search) || containsFold(s.Email, filter.Search) || containsFold(s.Phone, filter.Search)) {
				continue
			}
			if filter.Status != "" && s.Status != filter.Status {
				continue
			}
			if filter.Curriculum != "" && !containsFold(s.Curriculum.String, filter.Curriculum) {
				continue
			}
			if !inWindow(s.CreatedAt, filter.CreatedFrom, filter.CreatedTo) {
				continue
			}
		}
		subs = append(subs, s)
	}

	total := len(subs)
	page.Clean()
	lo, hi := paginate(total, page.Limit, page.Offset())
	return subs[lo:hi], total, nil
}

func (repo *submissionRepository) GetSubmissionByID(_ context.Context, id string, _ ...core.DBExecutor) (submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) UpdateSubmission(_ context.Context, s submission.Submission, _ ...core.DBExecutor) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[s.ID]; !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *submissionRepository) DeleteSubmissionsByID(_ context.Context, ids []string, _ ...core.DBExecutor) (int, error) {
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
