package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/amoskalev/notepanel/config"
	"github.com/amoskalev/notepanel/database"
	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/util/crypto"
	"github.com/amoskalev/notepanel/web"
	"github.com/amoskalev/notepanel/web/service"

	"github.com/spf13/cobra"
)

var configPath string

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func initLogger() {
	level, err := logger.ParseLevel(config.GetLogLevel())
	if err != nil {
		log.Fatal(err)
	}
	logger.InitLogger(level)
}

// prepareDB opens the configured database and seeds the administrator on
// first boot.
func prepareDB(cfg *config.Config) error {
	if err := database.InitDB(&cfg.Database); err != nil {
		return err
	}
	seeded, err := database.SeedAdmin(database.GetDB(), cfg.Database.GetSeedMarkerPath(), database.AdminSeed{
		Email:    cfg.Admin.Email,
		Nickname: cfg.Admin.Nickname,
		Password: cfg.Admin.Password,
	}, crypto.DefaultScrypt().Hash)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("seeded administrator", cfg.Admin.Email)
	}
	return nil
}

// reloadDB swaps the process-wide handle for one built from cfg, so a SIGHUP
// picks up changed database settings.
func reloadDB(cfg *config.Config) error {
	if err := database.CloseDB(); err != nil {
		logger.Warning("close database err:", err)
	}
	return prepareDB(cfg)
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	cfg := loadConfig()
	initLogger()
	defer logger.CloseLogger()

	if err := prepareDB(cfg); err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database err:", err)
		}
	}()

	server := web.NewServer(cfg)
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			cfg = loadConfig()
			if err := reloadDB(cfg); err != nil {
				log.Println(err)
				return
			}
			server = web.NewServer(cfg)
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func openDB() (*config.Config, bool) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Println(err)
		return nil, false
	}
	if err := database.InitDB(&cfg.Database); err != nil {
		fmt.Println(err)
		return nil, false
	}
	return cfg, true
}

func showSetting() {
	cfg, ok := openDB()
	if !ok {
		return
	}
	defer database.CloseDB()

	settings, err := service.NewSettingService(database.GetDB()).GetAllSetting()
	if err != nil {
		fmt.Println("get settings failed:", err)
		return
	}
	fmt.Println("current panel settings as follows:")
	fmt.Println("listen:", cfg.Listen)
	fmt.Println("port:", cfg.Port)
	fmt.Println("files root:", cfg.FilesRoot)
	fmt.Println("database:", cfg.Database.Type)
	fmt.Println("audit retention days:", settings.AuditRetentionDays)
	fmt.Println("audit page size:", settings.AuditPageSize)
	fmt.Println("session sweep:", settings.SessionSweepSpec)
	fmt.Println("audit cleanup:", settings.AuditCleanupSpec)
}

func updateSetting(retentionDays int) {
	if _, ok := openDB(); !ok {
		return
	}
	defer database.CloseDB()

	if retentionDays > 0 {
		err := service.NewSettingService(database.GetDB()).SetAuditRetentionDays(retentionDays)
		if err != nil {
			fmt.Println("set audit retention failed:", err)
		} else {
			fmt.Printf("set audit retention %v days success\n", retentionDays)
		}
	}
}

func addUser(nickname, email, password string, isAdmin bool) {
	if _, ok := openDB(); !ok {
		return
	}
	defer database.CloseDB()

	users := service.NewUserAdminService(database.GetDB(), crypto.DefaultScrypt())
	user, err := users.AddUser(nickname, email, password, isAdmin)
	if err != nil {
		fmt.Println("add user failed:", service.CodeOf(err))
		return
	}
	fmt.Printf("user %s added with id %d\n", user.Email, user.Id)
}

func main() {
	var rootCmd = &cobra.Command{
		Use: "notepanel",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.GetConfigPath(), "path to a TOML config file")

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetName(), config.GetVersion())
		},
	}

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Show or update settings",
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			showSetting()
		},
	}

	var updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Update settings",
		Run: func(cmd *cobra.Command, args []string) {
			days, _ := cmd.Flags().GetInt("auditRetentionDays")
			updateSetting(days)
		},
	}
	updateCmd.Flags().Int("auditRetentionDays", 0, "set audit log retention in days")

	var userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var addCmd = &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		Run: func(cmd *cobra.Command, args []string) {
			nickname, _ := cmd.Flags().GetString("nickname")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			isAdmin, _ := cmd.Flags().GetBool("admin")
			addUser(nickname, email, password, isAdmin)
		},
	}
	addCmd.Flags().String("nickname", "", "display name")
	addCmd.Flags().String("email", "", "login email")
	addCmd.Flags().String("password", "", "login password")
	addCmd.Flags().Bool("admin", false, "grant administrator rights")

	settingCmd.AddCommand(showCmd, updateCmd)
	userCmd.AddCommand(addCmd)
	rootCmd.AddCommand(runCmd, versionCmd, settingCmd, userCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
