package tutor

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/tutorhub/core"
)

var (
	// errors
	ErrNotFound    = errors.New("tutor not found")
	ErrEmailExists = errors.New("Email already exists")
)

// placeholderImageURL is served when the media host rejects an upload;
// creation proceeds regardless.
const placeholderImageURL = "https://placehold.co/400x400?text=Tutor"

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedTutors []Tutor, exec ...core.DBExecutor) error
		CreateTutor(ctx context.Context, tut Tutor, exec ...core.DBExecutor) (Tutor, error)
		// QueryTutors applies AND on the available QueryFilter fields; Search does a
		// case-insensitive match on Name, Email or Subject. Returns the page and the total count.
		QueryTutors(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]Tutor, int, error)
		GetTutorByID(ctx context.Context, id string, exec ...core.DBExecutor) (Tutor, error)
		UpdateTutor(ctx context.Context, tut Tutor, exec ...core.DBExecutor) (Tutor, error)
		DeleteTutorsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		CheckUniqueness(email string, exclTutors ...Tutor) error
		Create(nt NewTutor) (Tutor, error)
		Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]Tutor, core.Pagination, error)
		GetByID(id string) (Tutor, error)
		Update(id string, ut UpdateTutor) (Tutor, error)
		Delete(ids ...string) error
	}

	service struct {
		db       core.DB
		repo     Repository
		mediaSvc core.MediaService
		logger   core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(db core.DB, repo Repository, mediaSvc core.MediaService, logger core.Logger) Service {
	return &service{
		db:       db,
		repo:     repo,
		mediaSvc: mediaSvc,
		logger:   logger,
	}
}

func (svc *service) CheckUniqueness(email string, exclTutors ...Tutor) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, exclTutors); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(nt NewTutor) (Tutor, error) {
	now := time.Now().UTC()
	tut := Tutor{
		Name:          nt.Name,
		Email:         nt.Email,
		Phone:         nt.Phone,
		Subject:       nt.Subject,
		Qualification: nt.Qualification,
		Rating:        nt.Rating,
		Status:        nt.Status,
		Featured:      nt.Featured,
		Bio:           null.NewString(nt.Bio, nt.Bio != ""),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if nt.Experience != nil {
		tut.Experience = *nt.Experience
	}
	if tut.Status == "" {
		tut.Status = StatusPending
	}
	tut.ImageKey, tut.ImageURL = svc.storeImage(nt.Image, nt.Name)

	return svc.repo.CreateTutor(context.Background(), tut)
}

func (svc *service) Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]Tutor, core.Pagination, error) {
	tutors, total, err := svc.repo.QueryTutors(context.Background(), filter, ordering, page)
	if err != nil {
		return nil, core.Pagination{}, err
	}
	return tutors, core.NewPagination(page, total), nil
}

func (svc *service) GetByID(id string) (Tutor, error) {
	return svc.repo.GetTutorByID(context.Background(), id)
}

func (svc *service) Update(id string, ut UpdateTutor) (Tutor, error) {
	ctx := context.Background()

	tut, err := svc.repo.GetTutorByID(ctx, id)
	if err != nil {
		return Tutor{}, err
	}

	if ut.Name != "" {
		tut.Name = ut.Name
	}
	if ut.Email != "" {
		tut.Email = ut.Email
	}
	if ut.Phone != "" {
		tut.Phone = ut.Phone
	}
	if ut.Subject != "" {
		tut.Subject = ut.Subject
	}
	if ut.Qualification != "" {
		tut.Qualification = ut.Qualification
	}
	if ut.Experience != nil {
		tut.Experience = *ut.Experience
	}
	if ut.Rating != nil {
		tut.Rating = *ut.Rating
	}
	if ut.Status != "" {
		tut.Status = ut.Status
	}
	if ut.Featured != nil {
		tut.Featured = *ut.Featured
	}
	if ut.Bio != nil {
		tut.Bio = null.NewString(*ut.Bio, *ut.Bio != "")
	}
	if ut.Image != "" {
		oldKey := tut.ImageKey
		tut.ImageKey, tut.ImageURL = svc.storeImage(ut.Image, tut.Name)
		svc.deleteImage(oldKey)
	}
	tut.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateTutor(ctx, tut)
}

func (svc *service) Delete(ids ...string) error {
	ctx := context.Background()

	// collect image keys before the rows go away
	keys := make([]null.String, 0, len(ids))
	for _, id := range ids {
		if tut, err := svc.repo.GetTutorByID(ctx, id); err == nil {
			keys = append(keys, tut.ImageKey)
		}
	}

	if _, err := svc.repo.DeleteTutorsByID(ctx, ids); err != nil {
		return err
	}
	for _, key := range keys {
		svc.deleteImage(key)
	}
	return nil
}

// storeImage pushes a base64 payload to the media host; plain URLs are stored
// as-is. A failed upload falls back to a placeholder instead of aborting.
func (svc *service) storeImage(image, name string) (key, url null.String) {
	if image == "" {
		return null.String{}, null.String{}
	}

	ct, data, isData, err := core.DecodeDataURI(image)
	if !isData {
		return null.String{}, null.StringFrom(image)
	}
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("decoding tutor image: %v", err))
		return null.String{}, null.StringFrom(placeholderImageURL)
	}

	obj, err := svc.mediaSvc.Upload(context.Background(), core.Slugify(name), ct, bytes.NewReader(data))
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("uploading tutor image: %v", err), err)
		return null.String{}, null.StringFrom(placeholderImageURL)
	}
	return null.StringFrom(obj.Key), null.StringFrom(obj.URL)
}

// deleteImage removes the hosted asset; failures are logged and swallowed so a
// record deletion never fails on account of its media.
func (svc *service) deleteImage(key null.String) {
	if !key.Valid || key.String == "" {
		return
	}
	if err := svc.mediaSvc.Delete(context.Background(), key.String); err != nil {
		svc.logger.Warn(fmt.Sprintf("deleting tutor image %s: %v", key.String, err), err)
	}
}
