package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/certprep/cbt/internal/chrome"
	"github.com/certprep/cbt/internal/domain/examconfig"
	examsession "github.com/certprep/cbt/internal/domain/exam_session"
	"github.com/certprep/cbt/internal/domain/questionbank"
	"github.com/certprep/cbt/internal/grader"
	"github.com/certprep/cbt/internal/infrastructure/config"
	"github.com/certprep/cbt/internal/remote"
	"github.com/certprep/cbt/internal/service"
	"github.com/certprep/cbt/internal/state"
	"github.com/certprep/cbt/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	query := flag.String("query", "", `exam page query or URL, e.g. "ui=exam&mode=random&certificateId=7"`)
	questionsFile := flag.String("questions", "", "question bank JSON file (overrides CBT_QUESTIONS_FILE)")
	previous := flag.Int64("previous", 0, "print a previous attempt from the platform and exit")
	history := flag.Bool("history", false, "list attempts recorded on this device and exit")
	resubmit := flag.Int("resubmit", 0, "resend unacknowledged attempts with N concurrent requests and exit")
	attempt := flag.String("attempt", "", "print one attempt recorded on this device and exit")
	schedule := flag.String("schedule", "", `print a month calendar of local attempts ("YYYY-MM", "now" for this month) and exit`)
	favorite := flag.String("favorite", "", "toggle a certificate id in the favorites and exit")
	logout := flag.Bool("logout", false, "clear the account state kept on this device and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	logOut, closeLog, err := openLog(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		return 1
	}
	defer closeLog()
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	app := state.NewApp()
	if err := store.Hydrate(ctx, db, app); err != nil {
		logger.Warn("failed to hydrate state", "error", err)
	}

	client, err := remote.New(remote.Config{
		BaseURL:       cfg.APIBaseURL,
		SessionCookie: cfg.SessionCookie,
		Timeout:       cfg.RequestTimeout,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to create api client", "error", err)
		return 1
	}

	sc := examsession.DefaultConfig()
	sc.TimeLimit = time.Duration(cfg.ExamSeconds) * time.Second
	sc.PageSize = cfg.PageSize
	sc.Breakpoint = cfg.Breakpoint
	svc := service.NewExamService(client, db, grader.ChoiceGrader{}, app, sc, logger)

	// ── Commands ────────────────────────────────────────────────────
	switch {
	case *previous > 0:
		return printPrevious(ctx, svc, *previous)
	case *history:
		return printHistory(ctx, svc, examconfig.Parse(*query).CertificateID)
	case *resubmit > 0:
		sent, err := svc.Resubmit(ctx, *resubmit)
		fmt.Printf("%d건 전송\n", sent)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		return 0
	case *attempt != "":
		return printAttempt(ctx, svc, *attempt)
	case *schedule != "":
		return runSchedule(ctx, svc, *schedule)
	case *favorite != "":
		on, err := svc.ToggleFavorite(ctx, *favorite)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		if on {
			fmt.Printf("즐겨찾기에 추가했습니다: %s\n", *favorite)
		} else {
			fmt.Printf("즐겨찾기에서 삭제했습니다: %s\n", *favorite)
		}
		return 0
	case *logout:
		if err := svc.Logout(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		fmt.Println("로그아웃했습니다.")
		return 0
	}

	path := cfg.QuestionsFile
	if *questionsFile != "" {
		path = *questionsFile
	}
	examCfg := examconfig.Parse(*query)
	bank, err := questionbank.LoadFile(path, examCfg.CertName)
	if err != nil {
		logger.Error("failed to load questions", "path", path, "error", err)
		fmt.Fprintf(os.Stderr, "failed to load questions: %v\n", err)
		return 1
	}

	return runExam(ctx, svc, examCfg, bank, logger)
}

func runExam(ctx context.Context, svc *service.ExamService, examCfg examconfig.Config, bank *questionbank.QuestionBank, logger *slog.Logger) int {
	ticks := make(chan int, 1)
	expired := make(chan struct{}, 1)
	session, err := svc.NewSession(examCfg, bank, termWidth(),
		examsession.OnTick(func(r int) {
			select {
			case ticks <- r:
			default:
			}
		}),
		examsession.OnExpire(func() { expired <- struct{}{} }),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer session.Close()

	reason, err := interact(ctx, session, ticks, expired)
	if err != nil {
		logger.Error("terminal error", "error", err)
		fmt.Fprintf(os.Stderr, "terminal error: %v\n", err)
		return 1
	}
	if reason == exitQuit {
		logger.Info("session abandoned", "session_id", session.ID)
		fmt.Println("시험을 종료했습니다. 답안은 제출되지 않았습니다.")
		return 0
	}
	if reason == exitTimeUp {
		fmt.Println("시간이 종료되어 자동으로 제출합니다.")
	}

	out, err := svc.Finish(ctx, session)
	printSummary(os.Stdout, out, err)
	if err != nil {
		return 1
	}
	return 0
}

// interact owns the terminal for the duration of the exam page. Raw mode,
// exam chrome and the resize listener are all released before it returns.
func interact(ctx context.Context, session *examsession.Session, ticks <-chan int, expired <-chan struct{}) (exitReason, error) {
	restore, err := rawMode(int(os.Stdin.Fd()))
	if err != nil {
		return exitQuit, err
	}
	defer restore()

	surface := newTerminalSurface(os.Stdout)
	chromeCtl := chrome.NewController(surface)
	chromeCtl.SetMode(session.Config.UI)
	defer chromeCtl.Close()

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer func() {
		signal.Stop(winch)
		close(winch)
	}()
	resize := make(chan struct{}, 1)
	go func() {
		for range winch {
			select {
			case resize <- struct{}{}:
			default:
			}
		}
	}()

	keys := make(chan keyEvent)
	go readKeys(os.Stdin, keys)

	r := &runner{
		session: session,
		surface: surface,
		out:     os.Stdout,
		width:   termWidth,
	}
	session.Start()
	defer session.Pause()
	return r.loop(ctx, keys, ticks, expired, resize), nil
}

func printPrevious(ctx context.Context, svc *service.ExamService, id int64) int {
	prev, err := svc.Previous(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, prev.Body, "", "  "); err != nil {
		buf.Write(prev.Body)
	}
	fmt.Println(buf.String())
	return 0
}

func printHistory(ctx context.Context, svc *service.ExamService, certificateID string) int {
	records, err := svc.History(ctx, certificateID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if len(records) == 0 {
		fmt.Println("기록이 없습니다.")
		return 0
	}
	for _, rec := range records {
		pending := ""
		if rec.CertificateID != "" && !rec.Submitted {
			pending = "  (미전송)"
		}
		star := " "
		if rec.CertificateID != "" && svc.IsFavorite(rec.CertificateID) {
			star = "★"
		}
		fmt.Printf("%s %s  %-8s %-12s %3d점  %d/%d  남은 시간 %s%s\n",
			star, rec.FinishedAt.Local().Format("2006-01-02 15:04"), rec.UI, rec.CertName,
			rec.Score, rec.CorrectCount, rec.Total, examsession.FormatSeconds(rec.LeftTime), pending)
	}
	return 0
}

func printAttempt(ctx context.Context, svc *service.ExamService, attemptID string) int {
	rec, err := svc.Attempt(ctx, attemptID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}

func runSchedule(ctx context.Context, svc *service.ExamService, month string) int {
	now := time.Now()
	if month == "now" {
		month = ""
	}
	start, err := parseMonth(month, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid month %q: %v\n", month, err)
		return 1
	}
	records, err := svc.History(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	printSchedule(os.Stdout, start, records, now)
	return 0
}

func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
