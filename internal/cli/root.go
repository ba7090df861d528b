package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/kepler471/daily/internal/config"
	"github.com/kepler471/daily/internal/logging"
	"github.com/kepler471/daily/internal/repository"
	"github.com/kepler471/daily/internal/service"
)

// app carries the shared wiring every subcommand needs.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	db    *gorm.DB
	repo  *repository.TaskRepository
	tasks *service.TaskService
}

// Execute runs the daily CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	var cfgPath string

	root := &cobra.Command{
		Use:           "daily",
		Short:         "Daily task tracker with reminders and a daily reset",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.New(cfg.LogLevel, true)

			db, err := repository.NewDB(cfg.DatabasePath)
			if err != nil {
				return err
			}
			a.db = db
			a.repo = repository.NewTaskRepository(db)
			a.tasks = service.NewTaskService(a.repo, a.log)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.db != nil {
				if sqlDB, err := a.db.DB(); err == nil {
					sqlDB.Close()
				}
			}
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newDoneCmd(a),
		newReopenCmd(a),
		newRmCmd(a),
		newResetCmd(a),
		newStatusCmd(a),
		newServeCmd(a),
	)

	return root
}

// resolveTaskID expands a unique id prefix into a full task id.
func (a *app) resolveTaskID(cmd *cobra.Command, prefix string) (string, error) {
	tasks, err := a.tasks.List(cmd.Context())
	if err != nil {
		return "", err
	}

	var matches []string
	for _, task := range tasks {
		if task.ID == prefix {
			return task.ID, nil
		}
		if strings.HasPrefix(task.ID, prefix) {
			matches = append(matches, task.ID)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no task matches %q", prefix)
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d matches)", prefix, len(matches))
	}
}
