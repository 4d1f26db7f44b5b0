// Package dummydb provides in-memory repositories for tests.
package dummydb

import (
	"strings"
	"sync"
	"time"

	"github.com/mwalimu/tutorhub/core/blog"
	"github.com/mwalimu/tutorhub/core/contact"
	"github.com/mwalimu/tutorhub/core/pricing"
	"github.com/mwalimu/tutorhub/core/submission"
	"github.com/mwalimu/tutorhub/core/subscriber"
	"github.com/mwalimu/tutorhub/core/tutor"
	"github.com/mwalimu/tutorhub/core/user"
)

type (
	DB struct {
		user       *userTable
		tutor      *tutorTable
		blog       *blogTable
		contact    *contactTable
		submission *submissionTable
		pricing    *pricingTable
		subscriber *subscriberTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
	tutorTable struct {
		sync.RWMutex
		table map[string]*tutor.Tutor
	}
	blogTable struct {
		sync.RWMutex
		table map[string]*blog.Blog
	}
	contactTable struct {
		sync.RWMutex
		table map[string]*contact.Contact
	}
	submissionTable struct {
		sync.RWMutex
		table map[string]*submission.Submission
	}
	pricingTable struct {
		sync.RWMutex
		table map[string]*pricing.Plan
	}
	subscriberTable struct {
		sync.RWMutex
		table map[string]*subscriber.Subscriber
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		tutor:      &tutorTable{table: make(map[string]*tutor.Tutor)},
		blog:       &blogTable{table: make(map[string]*blog.Blog)},
		contact:    &contactTable{table: make(map[string]*contact.Contact)},
		submission: &submissionTable{table: make(map[string]*submission.Submission)},
		pricing:    &pricingTable{table: make(map[string]*pricing.Plan)},
		subscriber: &subscriberTable{table: make(map[string]*subscriber.Subscriber)},
	}
	return db, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func inWindow(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from.UTC()) {
		return false
	}
	if !to.IsZero() && t.After(to.UTC()) {
		return false
	}
	return true
}

func paginate(n, limit, offset int) (lo, hi int) {
	lo = offset
	if lo > n {
		lo = n
	}
	hi = lo + limit
	if hi > n {
		hi = n
	}
	return lo, hi
}
