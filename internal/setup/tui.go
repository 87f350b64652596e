package setup

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/chartbot/config"
)

const (
	// ConfigFile is where the wizard writes the generated configuration.
	ConfigFile = "config.gen.yaml"
	envFile    = ".env"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// Answers values collected by the wizard.
type Answers struct {
	Platform      string
	Provider      string
	LLMAPIURL     string
	Model         string
	BotToken      string
	APIKey        string
	DashboardAddr string
	Domains       string
	Amounts       string
	StatsSchedule string
}

func defaultAnswers() Answers {
	d := config.Default()
	return Answers{
		Platform:      d.Exchange.Platform,
		Provider:      d.LLM.Provider,
		LLMAPIURL:     "https://openrouter.ai/api/v1",
		Model:         d.LLM.Model,
		Amounts:       joinInts(d.Donations.Amounts),
		StatsSchedule: d.Stats.Schedule,
	}
}

// RunTUI launches the terminal configuration wizard. It writes the YAML
// config to config.gen.yaml and the secrets to .env.
func RunTUI() error {
	a := defaultAnswers()
	var confirm bool

	step("STEP 1: MARKET DATA")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Charts are built from public candles, no exchange keys needed.\n"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Exchange").
				Options(
					huh.NewOption("Binance", config.PlatformBinance),
					huh.NewOption("Bybit", config.PlatformBybit),
				).
				Value(&a.Platform),
		),
	).Run()
	if err != nil {
		return err
	}

	step("STEP 2: TELEGRAM")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bot Token").
				Description("Token issued by @BotFather").
				Value(&a.BotToken).
				EchoMode(huh.EchoModePassword).
				Validate(validateToken),
		),
	).Run()
	if err != nil {
		return err
	}

	step("STEP 3: AI MODEL")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Model Provider").
				Options(
					huh.NewOption("Google Gemini", config.ProviderGemini),
					huh.NewOption("OpenAI-compatible (OpenRouter, etc.)", config.ProviderOpenAI),
				).
				Value(&a.Provider),
		),
	).Run()
	if err != nil {
		return err
	}

	aiFields := []huh.Field{
		huh.NewInput().
			Title("Model Name").
			Value(&a.Model),
		huh.NewInput().
			Title("API Key").
			Value(&a.APIKey).
			EchoMode(huh.EchoModePassword).
			Validate(notEmpty("api key")),
	}
	if a.Provider == config.ProviderOpenAI {
		aiFields = append([]huh.Field{
			huh.NewInput().
				Title("API URL").
				Description("Base URL of the chat completions API").
				Value(&a.LLMAPIURL).
				Validate(notEmpty("api url")),
		}, aiFields...)
	}
	if err = huh.NewForm(huh.NewGroup(aiFields...)).Run(); err != nil {
		return err
	}

	step("STEP 4: EXTRAS")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Donation Amounts").
				Description("Comma separated star amounts (e.g. 1,5,10)").
				Value(&a.Amounts).
				Validate(func(s string) error {
					_, err := parseAmounts(s)
					return err
				}),
			huh.NewInput().
				Title("Dashboard Address").
				Description("e.g. :8080, leave empty to disable").
				Value(&a.DashboardAddr),
			huh.NewInput().
				Title("Dashboard TLS Domains").
				Description("Comma separated, leave empty for plain HTTP").
				Value(&a.Domains),
			huh.NewInput().
				Title("Stats Schedule").
				Description("Cron spec, e.g. @every 1h").
				Value(&a.StatsSchedule),
		),
	).Run()
	if err != nil {
		return err
	}

	step("FINAL CONFIRMATION")
	summary := fmt.Sprintf(
		"Exchange: %s\nProvider: %s\nModel: %s\nDashboard: %s\nDonations: %s\n",
		a.Platform, a.Provider, a.Model, orDisabled(a.DashboardAddr), a.Amounts,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return errors.New("setup cancelled by user")
	}

	if err := Save(a, ConfigFile, envFile); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s, secrets to %s\nStarting bot...", ConfigFile, envFile)))
	time.Sleep(1500 * time.Millisecond)
	return nil
}

// Build converts wizard answers into a validated config.
func Build(a Answers) (config.Config, error) {
	cfg := config.Default()
	cfg.Exchange.Platform = a.Platform
	cfg.Telegram.BotToken = strings.TrimSpace(a.BotToken)
	cfg.LLM.Provider = a.Provider
	cfg.LLM.Model = strings.TrimSpace(a.Model)
	cfg.LLM.APIKey = strings.TrimSpace(a.APIKey)
	if a.Provider == config.ProviderOpenAI {
		cfg.LLM.APIURL = strings.TrimSpace(a.LLMAPIURL)
	}
	cfg.Dashboard.Addr = strings.TrimSpace(a.DashboardAddr)
	cfg.Dashboard.Domains = splitList(a.Domains)
	if s := strings.TrimSpace(a.StatsSchedule); s != "" {
		cfg.Stats.Schedule = s
	}

	amounts, err := parseAmounts(a.Amounts)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Donations.Amounts = amounts

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Save writes the non-secret config as YAML and the secrets to an env file.
func Save(a Answers, configPath, envPath string) error {
	cfg, err := Build(a)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return errors.Wrap(err, "failed to generate yaml")
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to save config file")
	}

	secrets := map[string]string{"TELEGRAM_BOT_TOKEN": cfg.Telegram.BotToken}
	if cfg.LLM.Provider == config.ProviderGemini {
		secrets["GEMINI_API_KEY"] = cfg.LLM.APIKey
	} else {
		secrets["LLM_API_KEY"] = cfg.LLM.APIKey
	}
	if err := godotenv.Write(secrets, envPath); err != nil {
		return errors.Wrap(err, "failed to save env file")
	}
	return os.Chmod(envPath, 0o600)
}

func step(title string) {
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("CHART BOT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render(title))
}

func validateToken(s string) error {
	id, secret, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || id == "" || secret == "" {
		return errors.New("token must look like 123456:ABC...")
	}
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return errors.New("token must start with the numeric bot id")
	}
	return nil
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func parseAmounts(s string) ([]int, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, errors.New("at least one amount is required")
	}
	amounts := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, errors.Errorf("invalid amount %q", p)
		}
		amounts = append(amounts, n)
	}
	return amounts, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func orDisabled(s string) string {
	if s == "" {
		return "disabled"
	}
	return s
}
