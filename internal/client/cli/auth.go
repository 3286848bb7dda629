package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/viktorkr/authapp/internal/client/api"
	"github.com/viktorkr/authapp/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// SignUp prompts for account details and creates a new account. On success
// the session becomes authenticated and the token is persisted locally.
// The password byte slice is securely wiped before returning.
func (a *App) SignUp(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	firstName, err := getSimpleText(a.reader, "Enter first name", a.out)
	if err != nil {
		return err
	}

	lastName, err := getSimpleText(a.reader, "Enter last name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.session.SignUp(ctx, api.SignUpRequest{
		Email:     email,
		Password:  string(password),
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			fmt.Fprintln(a.out, "An account with this email already exists.")
			return nil
		}
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

// SignIn prompts for credentials and authenticates. On success the session
// becomes authenticated; bad credentials print a message instead of failing
// the REPL. The password is securely wiped before returning.
func (a *App) SignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.session.SignIn(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Invalid email or password.")
			return nil
		}
		if errors.Is(err, api.ErrUnavailable) {
			fmt.Fprintln(a.out, "Server unavailable, try again later.")
			return nil
		}
		return err
	}

	fmt.Fprintln(a.out, "Signed in.")
	return nil
}

// SignOut notifies the server (best effort, the endpoint only acknowledges)
// and drops the local session. The session is forgotten even when the server
// is unreachable.
func (a *App) SignOut(ctx context.Context) error {
	if token := a.session.Token(); token != "" {
		if err := a.client.SignOut(ctx, token); err != nil {
			fmt.Fprintln(a.out, "Server unreachable, signing out locally.")
		}
	}

	a.session.SignOut(ctx)
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// WhoAmI fetches and prints the current profile.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.session.Profile(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Session expired, please sign in again.")
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "%s <%s>\n", user.FullName(), user.Email)
	return nil
}

// UpdateProfile prompts for new name parts; empty input leaves a field
// unchanged.
func (a *App) UpdateProfile(ctx context.Context) error {
	firstName, err := getSimpleText(a.reader, "Enter new first name (empty to keep)", a.out)
	if err != nil {
		return err
	}

	lastName, err := getSimpleText(a.reader, "Enter new last name (empty to keep)", a.out)
	if err != nil {
		return err
	}

	var update api.ProfileUpdate
	if firstName != "" {
		update.FirstName = &firstName
	}
	if lastName != "" {
		update.LastName = &lastName
	}
	if update.FirstName == nil && update.LastName == nil {
		fmt.Fprintln(a.out, "Nothing to update.")
		return nil
	}

	user, err := a.session.UpdateProfile(ctx, update)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Session expired, please sign in again.")
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "Updated: %s <%s>\n", user.FullName(), user.Email)
	return nil
}

// Ping checks server liveness and reports the result.
func (a *App) Ping(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		fmt.Fprintln(a.out, "Server unreachable.")
		return nil
	}
	fmt.Fprintln(a.out, "Server is up.")
	return nil
}
