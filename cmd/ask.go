package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/examprep/cbt/internal/assistant"
	"github.com/examprep/cbt/internal/cache"
	"github.com/examprep/cbt/internal/llm"
	"github.com/examprep/cbt/internal/ui/theme"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the AI study assistant",
	Long: `Ask the AI study assistant a question. Answers are cached for a day and
served offline when available. With --image the picture is sent along with
the question and nothing is cached.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		imagePath, _ := cmd.Flags().GetString("image")
		tips, _ := cmd.Flags().GetBool("tips")
		clarify, _ := cmd.Flags().GetBool("clarify")
		prompt := strings.Join(args, " ")
		if prompt == "" && imagePath == "" {
			return errors.New("nothing to ask")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()

		var (
			text   string
			cached bool
		)
		switch {
		case imagePath != "":
			img, err := readImage(imagePath)
			if err != nil {
				return err
			}
			text, err = a.Assistant.AnalyzeImage(ctx, img, prompt, subject)
			if err != nil {
				return aiError(err)
			}
		case tips:
			text, err = a.Assistant.StudyTips(ctx, prompt)
			if err != nil {
				return aiError(err)
			}
		case clarify:
			text, err = a.Assistant.ClarifyTopic(ctx, prompt, subject)
			if err != nil {
				return aiError(err)
			}
		default:
			reply, err := a.Assistant.Ask(ctx, assistant.AskInput{Prompt: prompt, Subject: subject})
			if err != nil {
				return aiError(err)
			}
			text = reply.Text
			cached = reply.Source != cache.SourceNetwork
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		if cached {
			fmt.Fprintln(cmd.OutOrStdout(), theme.Hint.Render("(cached answer)"))
		}
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Inspect or reset the assistant conversation",
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the saved conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		turns := a.Assistant.History(cmd.Context())
		if len(turns) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No conversation yet.")
			return nil
		}
		for _, t := range turns {
			label := theme.Selected.Render("you")
			if t.Role == llm.RoleAssistant {
				label = theme.Correct.Render("assistant")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n\n", label, t.Content)
		}
		return nil
	},
}

var chatResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Assistant.ResetSession(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Conversation cleared.")
		return nil
	},
}

func readImage(path string) (llm.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return llm.Image{}, fmt.Errorf("read image: %w", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return llm.Image{}, fmt.Errorf("%s is not an image (%s)", path, mime)
	}
	return llm.Image{MIMEType: mime, Data: data}, nil
}

// aiError turns assistant failures into messages for the terminal.
func aiError(err error) error {
	switch {
	case errors.Is(err, assistant.ErrOffline):
		return errors.New("you're offline and this question has no cached answer; try again when connected")
	case errors.Is(err, assistant.ErrNotConfigured):
		return errors.New("the AI assistant is not configured; set XAI_API_KEY (or another provider key) in .env")
	}
	var auth *llm.ErrAuth
	if errors.As(err, &auth) {
		return errors.New("the AI provider rejected the API key")
	}
	return err
}

func init() {
	askCmd.Flags().StringP("subject", "s", "", "Subject the question is about")
	askCmd.Flags().String("image", "", "Path to an image to send with the question")
	askCmd.Flags().Bool("tips", false, "Treat the argument as a subject and ask for study tips")
	askCmd.Flags().Bool("clarify", false, "Treat the argument as a topic and ask for a simple explanation")

	chatCmd.AddCommand(chatHistoryCmd)
	chatCmd.AddCommand(chatResetCmd)
}
