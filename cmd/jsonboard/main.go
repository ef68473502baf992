package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"jsonboard/internal/config"
	boardSvc "jsonboard/internal/domain/services/board"
	"jsonboard/internal/repository/postgres"
	serviceBoard "jsonboard/internal/service/board"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const usage = `usage: jsonboard <command> [args]

commands:
  init                         create the storage tables
  ls [folder-id]               list a folder's direct children (default root)
  path <folder-id>             print the breadcrumb chain root -> folder
  mkdir <name> [parent-id]     create a folder
  put <name> <file> [parent-id]  import a JSON file
  cat <file-id>                print a file's raw content
  mv <target-folder-id|root> <id>...  move files/folders into a folder
  rename <folder|file> <id> <new-name>
  rm <file-id>                 delete a file
  rmdir <folder-id>            delete a folder and everything under it
`

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	logLevel := slog.LevelWarn
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stderr
	if logFile, err := config.SetupLogFile(cfg.LogDir, settings.LogMaxFiles); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	} else {
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stderr, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}

	engine := serviceBoard.NewStorageEngine(
		postgres.NewFolderRepository(repoConfig),
		postgres.NewFileRepository(repoConfig),
		postgres.NewContentRepository(repoConfig),
		postgres.NewTransactionManager(pool),
		settings,
		logger,
	)

	if err := run(ctx, os.Args[1], os.Args[2:], engine, pool, tables); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func run(ctx context.Context, command string, args []string, engine boardSvc.StorageEngine, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	switch command {
	case "init":
		return postgres.CreateSchema(ctx, pool, tables)
	case "ls":
		return cmdList(ctx, engine, args)
	case "path":
		return cmdPath(ctx, engine, args)
	case "mkdir":
		return cmdMkdir(ctx, engine, args)
	case "put":
		return cmdPut(ctx, engine, args)
	case "cat":
		return cmdCat(ctx, engine, args)
	case "mv":
		return cmdMove(ctx, engine, args)
	case "rename":
		return cmdRename(ctx, engine, args)
	case "rm":
		return cmdRemoveFile(ctx, engine, args)
	case "rmdir":
		return cmdRemoveFolder(ctx, engine, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdList(ctx context.Context, engine boardSvc.StorageEngine, args []string) error {
	var folderID *string
	if len(args) > 0 {
		folderID = &args[0]
	}

	contents, err := engine.ListChildren(ctx, folderID)
	if err != nil {
		return err
	}

	for _, folder := range contents.Folders {
		fmt.Printf("d %-36s  %s\n", folder.ID, folder.Name)
	}
	for _, file := range contents.Files {
		fmt.Printf("f %-36s  %s (%d bytes)\n", file.ID, file.Name, file.SizeBytes)
	}
	return nil
}

func cmdPath(ctx context.Context, engine boardSvc.StorageEngine, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected <folder-id>")
	}

	chain, err := engine.FolderPath(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Print("/")
	for i, folder := range chain {
		if i > 0 {
			fmt.Print("/")
		}
		fmt.Print(folder.Name)
	}
	fmt.Println()
	return nil
}

func cmdMkdir(ctx context.Context, engine boardSvc.StorageEngine, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("expected <name> [parent-id]")
	}

	var parentID *string
	if len(args) == 2 {
		parentID = &args[1]
	}

	folder, err := engine.CreateFolder(ctx, args[0], parentID)
	if err != nil {
		return err
	}
	fmt.Println(folder.ID)
	return nil
}

func cmdPut(ctx context.Context, engine boardSvc.StorageEngine, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("expected <name> <file> [parent-id]")
	}

	raw, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}

	// The engine never receives malformed JSON; the decode boundary is here
	if !json.Valid(raw) {
		return fmt.Errorf("%s is not well-formed JSON", args[1])
	}

	var parentID *string
	if len(args) == 3 {
		parentID = &args[2]
	}

	file, err := engine.CreateFile(ctx, args[0], string(raw), parentID)
	if err != nil {
		return err
	}
	fmt.Println(file.ID)
	return nil
}

func cmdCat(ctx context.Context, engine boardSvc.StorageEngine, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected <file-id>")
	}

	_, rawText, err := engine.ReadFileContent(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(rawText)
	return nil
}

func cmdMove(ctx context.Context, engine boardSvc.StorageEngine, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("expected <target-folder-id|root> <id>...")
	}

	var target *string
	if args[0] != "root" {
		target = &args[0]
	}

	result, err := engine.MoveItems(ctx, args[1:], target)
	if err != nil {
		return err
	}

	fmt.Printf("moved %d\n", len(result.Moved))
	for _, id := range result.Skipped {
		fmt.Printf("skipped %s\n", id)
	}
	return nil
}

func cmdRename(ctx context.Context, engine boardSvc.StorageEngine, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("expected <folder|file> <id> <new-name>")
	}

	switch args[0] {
	case "folder":
		_, err := engine.RenameFolder(ctx, args[1], args[2])
		return err
	case "file":
		_, err := engine.RenameFile(ctx, args[1], args[2])
		return err
	default:
		return fmt.Errorf("expected 'folder' or 'file', got %q", args[0])
	}
}

func cmdRemoveFile(ctx context.Context, engine boardSvc.StorageEngine, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected <file-id>")
	}
	return engine.DeleteFile(ctx, args[0])
}

func cmdRemoveFolder(ctx context.Context, engine boardSvc.StorageEngine, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected <folder-id>")
	}
	return engine.DeleteFolder(ctx, args[0])
}
