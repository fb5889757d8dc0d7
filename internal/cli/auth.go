package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authvault/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for an email and password and attempts to authenticate.
// On failure the session error slot is rendered and then cleared, so the
// next prompt starts clean. The password bytes are wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.svc.Login(ctx, email, string(password)); err != nil {
		fmt.Println(a.session.Snapshot().Err)
		a.svc.ClearError()
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Signup prompts for a name, email, and password and attempts to create an
// account. A successful signup leaves the user logged in.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.svc.Signup(ctx, name, email, string(password)); err != nil {
		fmt.Println(a.session.Snapshot().Err)
		a.svc.ClearError()
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Logout clears the session. It never surfaces storage failures.
func (a *App) Logout(ctx context.Context) error {
	_ = a.svc.Logout(ctx)
	fmt.Println("Logged out")
	return nil
}

// Whoami renders the profile card of the authenticated user.
func (a *App) Whoami(ctx context.Context) error {
	snap := a.session.Snapshot()
	if snap.User == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("Name:         %s\n", snap.User.Name)
	fmt.Printf("Email:        %s\n", snap.User.Email)
	fmt.Printf("Member since: %s\n", snap.User.CreatedAt.Format("Jan 2, 2006"))
	return nil
}
