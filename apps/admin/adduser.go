package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/user"
)

// addUser creates an active admin user, or updates the existing one with
// that email.
func (cli *commandLine) addUser(name, email, pwd string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:  name,
			Email: email,
		}
	}
	usr.Name = name
	usr.Role = user.RoleAdmin
	usr.SetActive(true)
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}
