package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
	ErrLastAdmin   = errors.New("at least one active admin must remain")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers []User, exec ...core.DBExecutor) error
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		// QueryUsers applies AND on the available QueryFilter fields; Search does a
		// case-insensitive match on Name or Email. Returns the page and the total count.
		QueryUsers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]User, int, error)
		GetUser(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (User, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		UpdateOrCreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		DeleteUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
		// CountActiveAdmins counts active admin users, ignoring the given IDs.
		CountActiveAdmins(ctx context.Context, excludedIDs []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		CheckUniqueness(email string, exclUsers ...User) error
		Create(nu NewUser) (User, error)
		Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]User, core.Pagination, error)
		GetByID(id string) (User, error)
		GetByEmail(email string) (User, error)
		Update(id string, uu UpdateUser) (User, error)
		Delete(ids ...string) error
		SetLastLogin(usr User) (User, error)
		RequestPasswordReset(email string) error
		ResetPassword(rp ResetUserPassword) error
	}

	service struct {
		db      core.DB
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(db core.DB, repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		db:      db,
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) CheckUniqueness(email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, exclUsers); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	usr.SetActive(true)
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(context.Background(), usr)
}

func (svc *service) Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]User, core.Pagination, error) {
	users, total, err := svc.repo.QueryUsers(context.Background(), filter, ordering, page)
	if err != nil {
		return nil, core.Pagination{}, err
	}
	return users, core.NewPagination(page, total), nil
}

func (svc *service) GetByID(id string) (User, error) {
	return svc.repo.GetUser(context.Background(), GetFilter{ID: id})
}

func (svc *service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUser(context.Background(), GetFilter{Email: core.CleanString(email, true /* lower */)})
}

func (svc *service) Update(id string, uu UpdateUser) (User, error) {
	ctx := context.Background()

	usr, err := svc.repo.GetUser(ctx, GetFilter{ID: id})
	if err != nil {
		return User{}, err
	}

	// deactivating must not leave the platform without an active admin
	if uu.IsActive != nil && !*uu.IsActive && usr.Active() {
		if err := svc.checkLastAdmin(ctx, id); err != nil {
			return User{}, err
		}
	}

	usr.Name = uu.Name
	usr.Email = uu.Email
	if uu.IsActive != nil {
		usr.IsActive = uu.IsActive
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) Delete(ids ...string) error {
	ctx := context.Background()
	if err := svc.checkLastAdmin(ctx, ids...); err != nil {
		return err
	}
	_, err := svc.repo.DeleteUsersByID(ctx, ids)
	return err
}

// checkLastAdmin fails with a ValidationError when removing/deactivating the
// given users would leave no active admin behind.
func (svc *service) checkLastAdmin(ctx context.Context, excludedIDs ...string) error {
	cnt, err := svc.repo.CountActiveAdmins(ctx, excludedIDs)
	if err != nil {
		return errors.Wrap(err, "counting active admins")
	}
	if cnt == 0 {
		return core.NewValidationError(ErrLastAdmin)
	}
	return nil
}

func (svc *service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin.SetValid(time.Now().UTC())
	return svc.repo.UpdateUser(context.Background(), usr)
}

func (svc *service) RequestPasswordReset(email string) error {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	go svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) sendPasswordResetMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Password Reset",
		TemplateName: "password-reset",
		TemplateData: struct {
			Name  string
			UID   string
			Token string
		}{
			Name:  usr.Name,
			UID:   EncodeUID(usr),
			Token: makeToken(usr),
		},
	})
}

func (svc *service) ResetPassword(rp ResetUserPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewValidationError(errInvalidToken)
		}
		return err
	}
	if err := verifyToken(usr, rp.Token); err != nil {
		return core.NewValidationError(err)
	}
	if err := usr.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err := svc.repo.UpdateUser(context.Background(), usr); err != nil {
		return errors.Wrap(err, "updating user")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Password Changed",
		BodyStr: fmt.Sprintf("Hi %s,\n\nYour password has been changed successfully.", usr.Name),
	})
	return nil
}
