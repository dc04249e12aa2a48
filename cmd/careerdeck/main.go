package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/careerdeck/careerdeck/cmd/careerdeck/internal/commands"
	"github.com/careerdeck/careerdeck/internal/logger"
)

var (
	version = "dev"
	cli     struct {
		Login        commands.LoginCmd        `cmd:"" help:"Log in to the job board"`
		Register     commands.RegisterCmd     `cmd:"" help:"Create an account"`
		Logout       commands.LogoutCmd       `cmd:"" help:"Clear the stored session"`
		Whoami       commands.WhoamiCmd       `cmd:"" help:"Show the current identity"`
		Jobs         commands.JobsCmd         `cmd:"" help:"List jobs"`
		Apply        commands.ApplyCmd        `cmd:"" help:"Apply to a job"`
		Applications commands.ApplicationsCmd `cmd:"" help:"List your submitted applications"`
		Recruiter    commands.RecruiterCmd    `cmd:"" help:"Manage postings and applicants"`
		Debug        bool                     `help:"Enable debug mode."`
		Version      kong.VersionFlag
	}
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = logger.Setup(cli.Debug)
	zerolog.SetGlobalLevel(log.Logger.GetLevel())

	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
