package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/klemjul/advisor/internal/app"
	"github.com/klemjul/advisor/internal/chat"
	"github.com/klemjul/advisor/internal/config"
	"github.com/klemjul/advisor/internal/llm"
	"github.com/klemjul/advisor/internal/logging"
	"github.com/klemjul/advisor/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func RootCommand(app app.App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "advisor",
		Short: "Chat with an AI beauty advisor in the command line.",
		Args:  cobra.NoArgs,
		Example: `
advisor --endpoint https://my-relay.workers.dev/   # Chat through a relay endpoint
advisor --provider openai --model gpt-4o   # Chat with OpenAI directly (OPENAI_API_KEY)
advisor -m "What sunscreen suits oily skin?"   # Ask a single question
	`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app)
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			return validate(cmd)
		},
	}

	rootCmd.Flags().SortFlags = false

	rootCmd.Flags().String("provider", config.DEFAULT_PROVIDER,
		fmt.Sprintf("LLM provider to use, one of %v. (env: %s)", llm.LLMProviders, config.GetEnvWithPrefix(config.ENV_PROVIDER)))
	rootCmd.Flags().String("endpoint", "",
		fmt.Sprintf("Relay URL, Ollama server URL or OpenAI base URL. (env: %s)", config.GetEnvWithPrefix(config.ENV_ENDPOINT)))
	rootCmd.Flags().String("api-key", "",
		fmt.Sprintf("Credential passed to the endpoint. (env: %s)", config.GetEnvWithPrefix(config.ENV_API_KEY)))
	rootCmd.Flags().String("model", "",
		fmt.Sprintf("LLM model to use, depends on the provider. (env: %s)", config.GetEnvWithPrefix(config.ENV_MODEL)))
	rootCmd.Flags().Float64("temperature", 0,
		fmt.Sprintf("Sampling temperature, omitted from requests unless set. (env: %s)", config.GetEnvWithPrefix(config.ENV_TEMPERATURE)))
	rootCmd.Flags().Duration("timeout", 0,
		fmt.Sprintf("Request timeout, 0 waits forever. (env: %s)", config.GetEnvWithPrefix(config.ENV_TIMEOUT)))
	rootCmd.Flags().StringP("prompt", "p", config.DEFAULT_PROMPT,
		fmt.Sprintf(
			`System prompt of the advisor. (env: %s)
- If <value> is a string, it will override the default and be used directly as the instructions.
- If <value> is a number, it will look for the environment variable %s_<number> instead.
`, config.GetEnvWithPrefix(config.ENV_PROMPT), config.GetEnvWithPrefix(config.ENV_PROMPT)))
	rootCmd.Flags().StringP("message", "m", "", "Ask a single question and print the reply instead of opening the chat.")
	rootCmd.Flags().String("log-file", "",
		fmt.Sprintf("Log file path, defaults to %s. (env: %s)", logging.DefaultLogPath(), config.GetEnvWithPrefix(config.ENV_LOG_FILE)))
	rootCmd.Flags().String("log-level", config.DEFAULT_LOG_LEVEL,
		fmt.Sprintf("Log level: debug, info, warn or error. (env: %s)", config.GetEnvWithPrefix(config.ENV_LOG_LEVEL)))
	rootCmd.Flags().String("log-format", config.DEFAULT_LOG_FORMAT,
		fmt.Sprintf("Log format: json or text. (env: %s)", config.GetEnvWithPrefix(config.ENV_LOG_FORMAT)))
	rootCmd.Flags().String("config", "", "Optional config file (yaml, toml or json) with the same keys as the flags.")

	viper.BindPFlag(config.ENV_PROVIDER, rootCmd.Flags().Lookup("provider"))
	viper.BindPFlag(config.ENV_ENDPOINT, rootCmd.Flags().Lookup("endpoint"))
	viper.BindPFlag(config.ENV_API_KEY, rootCmd.Flags().Lookup("api-key"))
	viper.BindPFlag(config.ENV_MODEL, rootCmd.Flags().Lookup("model"))
	viper.BindPFlag(config.ENV_TEMPERATURE, rootCmd.Flags().Lookup("temperature"))
	viper.BindPFlag(config.ENV_TIMEOUT, rootCmd.Flags().Lookup("timeout"))
	viper.BindPFlag(config.ENV_PROMPT, rootCmd.Flags().Lookup("prompt"))
	viper.BindPFlag(config.ENV_LOG_FILE, rootCmd.Flags().Lookup("log-file"))
	viper.BindPFlag(config.ENV_LOG_LEVEL, rootCmd.Flags().Lookup("log-level"))
	viper.BindPFlag(config.ENV_LOG_FORMAT, rootCmd.Flags().Lookup("log-format"))

	viper.SetEnvPrefix(config.ENV_PREFIX)
	viper.AutomaticEnv()

	return rootCmd
}

func loadConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(config.DOTENV_FILE); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %v", config.DOTENV_FILE, err)
	}

	configFile, err := cmd.Flags().GetString("config")
	if err != nil || configFile == "" {
		return nil
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}
	return nil
}

func validate(cmd *cobra.Command) error {
	provider := viper.GetString(config.ENV_PROVIDER)
	if !slices.Contains(llm.LLMProviders, llm.LLMProvider(provider)) {
		return fmt.Errorf("invalid provider '%s'. Valid providers are: %v", provider, llm.LLMProviders)
	}

	prompt := viper.GetString(config.ENV_PROMPT)
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt must be specified")
	}

	if cmd.Flags().Changed("message") {
		message, _ := cmd.Flags().GetString("message")
		if strings.TrimSpace(message) == "" {
			return fmt.Errorf("message must not be empty")
		}
	}

	return nil
}

func resolvePrompt() (string, error) {
	prompt := viper.GetString(config.ENV_PROMPT)
	promptNo, err := strconv.Atoi(prompt)
	if err != nil {
		return prompt, nil
	}
	promptEnv := fmt.Sprintf("%s_%v", config.ENV_PROMPT, promptNo)
	prompt = viper.GetString(promptEnv)
	if prompt == "" {
		return "", fmt.Errorf("invalid instructions no, env variable not found %s", config.GetEnvWithPrefix(promptEnv))
	}
	return prompt, nil
}

// clientOptions falls back to the provider's conventional environment
// variables when no credential or endpoint was configured.
func clientOptions(provider llm.LLMProvider) llm.LLMClientOptions {
	opts := llm.LLMClientOptions{
		Model:    viper.GetString(config.ENV_MODEL),
		Endpoint: viper.GetString(config.ENV_ENDPOINT),
		APIKey:   viper.GetString(config.ENV_API_KEY),
		Timeout:  viper.GetDuration(config.ENV_TIMEOUT),
	}
	if viper.IsSet(config.ENV_TEMPERATURE) {
		temperature := viper.GetFloat64(config.ENV_TEMPERATURE)
		opts.Temperature = &temperature
	}

	switch provider {
	case llm.LLMProviderOpenAI:
		if opts.APIKey == "" {
			opts.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case llm.LLMProviderGemini:
		if opts.APIKey == "" {
			opts.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	case llm.LLMProviderOllama:
		if opts.Endpoint == "" {
			opts.Endpoint = os.Getenv("OLLAMA_ENDPOINT")
		}
	}
	return opts
}

func run(cmd *cobra.Command, app app.App) error {
	provider := llm.LLMProvider(viper.GetString(config.ENV_PROVIDER))
	prompt, err := resolvePrompt()
	if err != nil {
		return err
	}

	logger, closer, err := app.Log().Init(logging.Options{
		File:   viper.GetString(config.ENV_LOG_FILE),
		Level:  viper.GetString(config.ENV_LOG_LEVEL),
		Format: viper.GetString(config.ENV_LOG_FORMAT),
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
	}
	defer closer.Close()

	opts := clientOptions(provider)
	opts.Logger = logger
	client, err := app.LLM().NewClient(provider, opts)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %v", err)
	}

	message, _ := cmd.Flags().GetString("message")
	if message != "" {
		return ask(cmd, app, chat.SessionOptions{
			SystemPrompt: prompt,
			Client:       client,
			Logger:       logger,
		}, message)
	}

	model := app.TUI().InitialModel(ui.InitialModelOptions{
		Title:        title(provider, opts.Model),
		SystemPrompt: prompt,
		Client:       client,
		Logger:       logger,
		Context:      cmd.Context(),
	})
	if _, err := app.TUI().Run(model); err != nil {
		return fmt.Errorf("error running interactive mode: %v", err)
	}
	return nil
}

// ask runs a single turn against an in-memory transcript and prints the reply.
func ask(cmd *cobra.Command, app app.App, opts chat.SessionOptions, message string) error {
	transcript := chat.NewTranscript()
	opts.Display = transcript
	session := chat.NewSession(opts)

	if err := session.Send(cmd.Context(), message); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), chat.ErrorReply)
		return fmt.Errorf("failed to generate response: %w", err)
	}

	reply, ok := transcript.Last()
	if !ok {
		return fmt.Errorf("no reply was rendered")
	}
	formattedRes, err := app.Format().FormatMarkdown(reply.Text)
	if err != nil {
		return fmt.Errorf("failed to format response: %v", err)
	}
	cmd.OutOrStdout().Write([]byte(formattedRes))
	return nil
}

func title(provider llm.LLMProvider, model string) string {
	if model == "" {
		return fmt.Sprintf("Beauty Advisor · %s", provider)
	}
	return fmt.Sprintf("Beauty Advisor · %s · %s", provider, model)
}
