// Command mailbox is a small IMAP mailbox-access tool.
//
// Usage:
//
//	mailbox [-config path] [-folder name] <command> [args]
//
// Commands:
//
//	recent [n]          show the n most recent messages (default 5)
//	search <text>       search subjects for text (last 10 matches)
//	unread              show unread messages (last 10)
//	folders             list mailbox folders
//	read <id>           read one message in full
//	init <host> <user>  write the config file
//	login               store the account password in the OS keyring
//	logout              remove the stored password
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nhle/mailbox/internal/credential"
	"github.com/nhle/mailbox/internal/model"
	"github.com/nhle/mailbox/internal/query"
	"github.com/nhle/mailbox/internal/session"
	"github.com/nhle/mailbox/internal/theme"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", model.DefaultConfigPath(), "config file path")
	folderFlag := flag.String("folder", "", "mailbox folder to query")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		return errors.New("missing command")
	}
	command := args[0]

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *folderFlag != "" {
		cfg.Folder = *folderFlag
	}
	if command == "init" {
		return initConfig(*configPath, cfg, args[1:])
	}

	if cfg.Host == "" || cfg.Username == "" {
		return fmt.Errorf(
			"config %s must set host and username (run 'mailbox init')",
			*configPath,
		)
	}

	switch command {
	case "login":
		return storePassword(cfg.Username)
	case "logout":
		return forgetPassword(cfg.Username)
	}

	password, err := resolvePassword(cfg.Username)
	if err != nil {
		return err
	}

	sess, err := session.Dial(context.Background(), cfg, password)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	engine := query.New(sess)

	switch command {
	case "recent":
		count := query.DefaultRecentCount
		if len(args) > 1 {
			count, err = strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid count %q", args[1])
			}
		}
		summaries, err := engine.Recent(cfg.Folder, count)
		if err != nil {
			return err
		}
		renderList(fmt.Sprintf("%d most recent messages", len(summaries)), summaries)

	case "search":
		if len(args) < 2 {
			return errors.New("search requires a keyword")
		}
		keyword := strings.Join(args[1:], " ")
		summaries, err := engine.Search(cfg.Folder, keyword)
		if err != nil {
			return err
		}
		renderList("search results: "+keyword, summaries)

	case "unread":
		summaries, err := engine.Unread(cfg.Folder)
		if err != nil {
			return err
		}
		renderList(fmt.Sprintf("unread messages (%d)", len(summaries)), summaries)

	case "folders":
		names, err := engine.Folders()
		if err != nil {
			return err
		}
		fmt.Println(theme.TitleStyle.Render("folders"))
		for _, name := range names {
			fmt.Println("  • " + name)
		}

	case "read":
		if len(args) < 2 {
			return errors.New("read requires a message id")
		}
		detail, err := engine.ReadOne(cfg.Folder, args[1])
		if err != nil {
			return err
		}
		renderDetail(detail)

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}

	return nil
}

// resolvePassword prefers the environment over the OS keyring so that
// scripted use never touches keyring prompts.
func resolvePassword(username string) (string, error) {
	if password := os.Getenv("MAILBOX_PASSWORD"); password != "" {
		return password, nil
	}

	password, err := credential.Get(username)
	if err != nil {
		return "", fmt.Errorf(
			"no password for %s: set MAILBOX_PASSWORD or run 'mailbox login': %w",
			username, err,
		)
	}
	return password, nil
}

// initConfig bootstraps the config file with the account's host and
// username; port, tls and folder keep their defaults unless the file
// already set them.
func initConfig(path string, cfg *model.Config, args []string) error {
	if len(args) < 2 {
		return errors.New("init requires a host and a username")
	}
	cfg.Host = args[0]
	cfg.Username = args[1]

	if err := model.SaveConfig(path, cfg); err != nil {
		return err
	}
	fmt.Println("wrote " + path)
	return nil
}

// forgetPassword removes the account's password from the OS keyring.
func forgetPassword(username string) error {
	if err := credential.Delete(username); err != nil {
		return err
	}
	fmt.Println("removed stored password for " + username)
	return nil
}

// storePassword reads a password from stdin and saves it under the
// account's username in the OS keyring.
func storePassword(username string) error {
	fmt.Printf("password for %s: ", username)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("empty password not stored")
	}

	if err := credential.Set(username, password); err != nil {
		return err
	}
	fmt.Println("stored.")
	return nil
}

func renderList(title string, summaries []model.MessageSummary) {
	fmt.Println(theme.TitleStyle.Render(title))
	if len(summaries) == 0 {
		fmt.Println(theme.DateStyle.Render("no messages"))
		return
	}

	rule := theme.RuleStyle.Render(strings.Repeat("─", 72))
	for i, summary := range summaries {
		sender := summary.FromName
		if sender == "" {
			sender = summary.FromAddr
		}
		fmt.Printf("%d. %s  %s\n",
			i+1,
			theme.SenderStyle.Render(sender),
			theme.DateStyle.Render("#"+summary.ID),
		)
		fmt.Println("   " + theme.SubjectStyle.Render(summary.Subject))
		fmt.Println("   " + theme.DateStyle.Render(summary.Date))
		fmt.Println(rule)
	}
}

func renderDetail(detail *model.MessageDetail) {
	fmt.Println(theme.TitleStyle.Render("message #" + detail.ID))
	fmt.Printf("%s %s <%s>\n",
		theme.DateStyle.Render("from:"),
		theme.SenderStyle.Render(detail.FromName),
		detail.FromAddr,
	)
	fmt.Printf("%s %s\n",
		theme.DateStyle.Render("subject:"),
		theme.SubjectStyle.Render(detail.Subject),
	)
	fmt.Printf("%s %s\n",
		theme.DateStyle.Render("date:"),
		detail.Date,
	)
	fmt.Println(theme.RuleStyle.Render(strings.Repeat("─", 72)))
	fmt.Println(detail.Body)
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: mailbox [-config path] [-folder name] <command> [args]

commands:
  recent [n]          show the n most recent messages (default %d)
  search <text>       search subjects for text (last 10 matches)
  unread              show unread messages (last 10)
  folders             list mailbox folders
  read <id>           read one message in full
  init <host> <user>  write the config file
  login               store the account password in the OS keyring
  logout              remove the stored password
`, query.DefaultRecentCount)
}
