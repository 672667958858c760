package cmd

import (
	"context"
	"io"

	"go-linkedin-jobs/internal/config"
	"go-linkedin-jobs/internal/ui"

	"github.com/rs/zerolog"
)

type Context struct {
	Ctx     context.Context
	Out     io.Writer
	Err     io.Writer
	UI      *ui.UI
	Config  *config.Config
	Logger  zerolog.Logger
	Verbose bool
	Version string
}
