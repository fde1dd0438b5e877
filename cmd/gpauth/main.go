package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/gpauth/pkg/authflow"
	"github.com/tendant/gpauth/pkg/authform"
	"github.com/tendant/gpauth/pkg/gpclient"
	"github.com/tendant/gpauth/pkg/session"
	"github.com/tendant/gpauth/pkg/tokencode"
)

type Config struct {
	Server     string `env:"GP_SERVER" env-default:""`
	URLPath    string `env:"GP_URLPATH" env-default:""`
	Platform   string `env:"GP_PLATFORM" env-default:"linux-64"`
	TotpSecret string `env:"GP_TOTP_SECRET" env-default:""`
	Insecure   bool   `env:"GP_INSECURE" env-default:"false"`
	LogLevel   string `env:"GP_LOG_LEVEL" env-default:"info"`
	CookieFile string `env:"GP_COOKIE_FILE" env-default:""`
}

func main() {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	server := flag.String("server", cfg.Server, "GlobalProtect portal or gateway host")
	urlpath := flag.String("urlpath", cfg.URLPath, "entry path; may carry a trailing :fieldname alt-secret suffix")
	cookieFile := flag.String("cookie-file", cfg.CookieFile, "file to write (or read, with -logout) the session cookie")
	logout := flag.Bool("logout", false, "log out the session cookie from -cookie-file instead of logging in")
	flag.Parse()

	logger := newLogger(cfg.LogLevel)
	if *server == "" {
		logger.Error("no server specified; set -server or GP_SERVER")
		os.Exit(1)
	}

	sess := session.New(*server)
	sess.URLPath = *urlpath
	sess.Platform = cfg.Platform

	clientOpts := []gpclient.Option{gpclient.WithLogger(logger)}
	if cfg.Insecure {
		logger.Warn("TLS certificate verification disabled")
		clientOpts = append(clientOpts, gpclient.WithInsecureTLS())
	}
	client := gpclient.New(sess, clientOpts...)

	flowOpts := []authflow.Option{authflow.WithLogger(logger)}
	if cfg.TotpSecret != "" {
		flowOpts = append(flowOpts, authflow.WithTokenGenerator(tokencode.NewTOTP(cfg.TotpSecret)))
	}
	presenter := &terminalPresenter{in: bufio.NewReader(os.Stdin)}
	flow := authflow.New(sess, client, presenter, flowOpts...)

	ctx := context.Background()

	if *logout {
		cookie, err := readCookie(*cookieFile)
		if err != nil {
			logger.Error("failed to read session cookie", "file", *cookieFile, "err", err)
			os.Exit(1)
		}
		sess.Cookie = cookie
		if err := flow.Logout(ctx, "user request"); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := flow.ObtainCookie(ctx); err != nil {
		logger.Error("login failed", "err", err)
		os.Exit(1)
	}

	out := fmt.Sprintf("cookie=%s\n# host=%s\n", sess.Cookie, sess.Hostname)
	if *cookieFile != "" {
		if err := os.WriteFile(*cookieFile, []byte(out), 0600); err != nil {
			logger.Error("failed to write cookie file", "file", *cookieFile, "err", err)
			os.Exit(1)
		}
		logger.Info("session cookie written", "file", *cookieFile)
	} else {
		fmt.Print(out)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func readCookie(file string) (string, error) {
	if file == "" {
		return "", fmt.Errorf("no cookie file specified")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "cookie=") {
			return strings.TrimPrefix(line, "cookie="), nil
		}
	}
	return "", fmt.Errorf("no cookie entry in %s", file)
}

// terminalPresenter collects form input from stdin.
type terminalPresenter struct {
	in *bufio.Reader
}

func (p *terminalPresenter) Present(ctx context.Context, form *authform.Form) error {
	fmt.Fprintln(os.Stderr, form.Message)
	for _, fld := range form.Fields {
		switch fld.Kind {
		case authform.Hidden:
			continue
		case authform.Select:
			for i, c := range fld.Choices {
				fmt.Fprintf(os.Stderr, "  %d) %s (%s)\n", i+1, c.Label, c.Value)
			}
			fmt.Fprintf(os.Stderr, "%s ", fld.Label)
			line, err := p.readLine()
			if err != nil {
				return err
			}
			if line == "" {
				continue // keep the default
			}
			if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(fld.Choices) {
				fld.Value = fld.Choices[n-1].Value
			} else {
				fld.Value = line
			}
		default:
			fmt.Fprintf(os.Stderr, "%s", fld.Label)
			line, err := p.readLine()
			if err != nil {
				return err
			}
			fld.Value = line
		}
	}
	return nil
}

func (p *terminalPresenter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		return "", authform.ErrCancelled
	}
	return strings.TrimSpace(line), nil
}
