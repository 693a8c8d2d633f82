// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/genesis"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/logdb"
	"github.com/vechain/rewardpool/lvldb"
)

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("invalid value %d, must not exceed %d", val, math.MaxInt)
	}
	return int(val), nil
}

func initLogger(lvl int, jsonLogs bool) {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(lvl))

	json := jsonLogs || !isTerminal(os.Stdout)
	log.SetDefault(log.NewLogger(newLogHandler(os.Stdout, &level, json)))
}

func newLogHandler(w io.Writer, level *slog.LevelVar, json bool) slog.Handler {
	if json {
		return log.JSONHandlerWithLevel(w, level)
	}
	return log.LogfmtHandlerWithLevel(w, level)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// loadGenesis reads the custom genesis at path, or returns the dev pool genesis when path is empty.
func loadGenesis(path string) (*genesis.Genesis, error) {
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	gen, err := genesis.LoadCustomGenesis(path)
	if err != nil {
		return nil, err
	}
	gene, err := genesis.NewCustomNet(gen)
	if err != nil {
		return nil, errors.WithMessage(err, "custom genesis")
	}
	return gene, nil
}

// makeInstanceDir returns the directory under dataDir dedicated to the pool launched by gene.
func makeInstanceDir(dataDir string, gene *genesis.Genesis) (string, error) {
	if dataDir == "" {
		return "", errors.New("unable to infer default data dir, use -data-dir to specify")
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(dir string, cacheMB int) (*lvldb.LevelDB, error) {
	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", path)
	}
	return db, nil
}

func openLogDB(dir string) (*logdb.LogDB, error) {
	path := filepath.Join(dir, "logs.db")
	db, err := logdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open log database [%v]", path)
	}
	return db, nil
}

func printStartupMessage(gene *genesis.Genesis, instanceDir string, apiURL string) {
	fmt.Printf(`Starting %v
    Pool         [ %v %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
`,
		fullVersion(),
		gene.Name(), gene.ID(),
		instanceDir,
		apiURL)
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".rewardpool")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
