package cli

import (
	"context"

	"github.com/dmitrijs2005/lubecatalog/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for the password (and the username unless it is configured)
// and authenticates against the catalog server. The password is wiped before
// returning.
func (a *App) Login(ctx context.Context) error {
	userName := a.config.Username
	if userName == "" {
		var err error
		userName, err = getSimpleText(a.reader, "Enter username", a.out)
		if err != nil {
			return err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.api.Login(ctx, userName, password); err != nil {
		return err
	}

	a.userName = userName
	a.println("Logged in as", userName)
	return nil
}
