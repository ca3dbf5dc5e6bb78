package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/tickets/config"
	"github.com/MixinNetwork/tickets/host"
	"github.com/MixinNetwork/tickets/nft"
	"github.com/MixinNetwork/tickets/store"
	"github.com/spf13/pflag"
)

type App struct {
	conf    *config.Configuration
	store   *store.BadgerStore
	runtime *host.Runtime
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fs := pflag.NewFlagSet("tickets", pflag.ExitOnError)
	bp := fs.StringP("dir", "d", "~/.mixin/tickets/data", "database directory path")
	cp := fs.StringP("config", "c", "~/.mixin/tickets/config.toml", "configuration file path")
	fs.SetInterspersed(false)
	fs.Usage = func() { usage(fs) }
	_ = fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) == 0 {
		usage(fs)
		os.Exit(2)
	}
	cmd, found := commands[args[0]]
	if !found {
		fmt.Fprintf(os.Stderr, "unknown command %s\n", args[0])
		usage(fs)
		os.Exit(2)
	}
	if cmd.offline {
		err := cmd.run(ctx, nil, args[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	conf, err := config.Setup(expandHome(*cp))
	if err != nil {
		panic(err)
	}
	logger.SetLevel(conf.LogLevel)

	db, err := store.OpenBadger(ctx, expandHome(*bp))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	clock, err := host.NewClock(db)
	if err != nil {
		panic(err)
	}
	app := &App{
		conf:    conf,
		store:   db,
		runtime: host.NewRuntime(db, nft.NewLedger(), clock),
	}
	err = cmd.run(ctx, app, args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage(fs *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: tickets [flags] <command> [command flags]\n\nFlags:\n")
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nCommands:\n")
	for _, name := range commandNames() {
		fmt.Fprintf(os.Stderr, "  %-16s %s\n", name, commands[name].usage)
	}
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	usr, err := user.Current()
	if err != nil {
		panic(err)
	}
	return filepath.Join(usr.HomeDir, p[2:])
}
