package main

import (
	"encoding/json"
	"fmt"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/user"
)

// addAdmin creates an admin account and prints it as a JSON fixture. The
// store lives in memory, so the printed record (with its password hash) is
// what gets pasted into the seed fixtures to persist the account.
func (cli *commandLine) addAdmin(uname, email, pwd string) error {
	nu := user.NewUser{
		Name:            core.CleanString(uname),
		Username:        core.CleanString(uname, true /* lower */),
		Email:           core.CleanString(email, true /* lower */),
		Password:        pwd,
		PasswordConfirm: pwd,
		Roles:           user.AdminRoles,
	}
	usr, err := cli.usrSvc.Create(nu)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(struct {
		user.User
		PasswordHash string `json:"password_hash"`
	}{usr, string(usr.PasswordHash)}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
