package commands

import (
	"context"
	"fmt"

	"github.com/careerdeck/careerdeck/internal/api"
	"github.com/careerdeck/careerdeck/internal/session"
)

// LoginCmd exchanges credentials for a session.
type LoginCmd struct {
	Server     string `help:"Server URL" default:"http://localhost:5000" env:"CAREERDECK_SERVER"`
	Email      string `arg:"" help:"Account email"`
	Password   string `help:"Account password" env:"CAREERDECK_PASSWORD" required:""`
	SessionDir string `help:"Custom session directory"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openSession(l.SessionDir)
	if err != nil {
		return err
	}

	client := newClient(l.Server, "", nil)

	result, err := client.Login(ctx, l.Email, l.Password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	role := session.ParseRole(result.Role)
	if role == "" {
		return fmt.Errorf("login failed: role not found")
	}

	if err := store.Set(result.Token, role); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", store.DisplayName(), role)

	switch role {
	case session.RoleRecruiter:
		fmt.Println("Use 'careerdeck recruiter jobs' to manage your postings.")
	case session.RoleSeeker:
		fmt.Println("Use 'careerdeck jobs' to browse open positions.")
	}

	return nil
}

// RegisterCmd creates a new account.
type RegisterCmd struct {
	Server   string `help:"Server URL" default:"http://localhost:5000" env:"CAREERDECK_SERVER"`
	Name     string `arg:"" help:"Full name"`
	Email    string `help:"Account email" required:""`
	Password string `help:"Account password" env:"CAREERDECK_PASSWORD" required:""`
	Role     string `help:"Account role" enum:"Seeker,Recruiter" default:"Seeker"`
}

func (r *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	client := newClient(r.Server, "", nil)

	err := client.Register(ctx, api.RegisterParams{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Println("Registration successful! Please login.")

	return nil
}

// LogoutCmd clears the stored session. Safe to run when not logged in.
type LogoutCmd struct {
	SessionDir string `help:"Custom session directory"`
}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openSession(l.SessionDir)
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return err
	}

	fmt.Println("Logged out successfully!")

	return nil
}

// WhoamiCmd shows the identity derived from the stored token.
type WhoamiCmd struct {
	SessionDir string `help:"Custom session directory"`
}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openSession(w.SessionDir)
	if err != nil {
		return err
	}

	if !store.Active() {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("Name: %s\n", store.DisplayName())
	fmt.Printf("Role: %s\n", roleToString(store.Role()))

	return nil
}
