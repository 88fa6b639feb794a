package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	builtindocs "github.com/aidanlsb/depgate/docs"
	"github.com/aidanlsb/depgate/internal/ui"
)

const docsTopicDir = "topics"

var (
	docsStdoutIsTerminal = func() bool { return isatty.IsTerminal(os.Stdout.Fd()) }
	docsMarkdownRender   = ui.RenderMarkdown
)

type docsTopic struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Show bundled documentation",
	Long: `List or read the documentation bundled with the binary. With no
argument, lists the available topics; with a topic name, renders it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return listDocs()
		}
		return showDocsTopic(args[0])
	},
}

func listDocs() error {
	topics, err := listDocsTopics(builtindocs.FS)
	if err != nil {
		return err
	}

	if isJSONOutput() {
		outputSuccess(topics)
		return nil
	}

	fmt.Println(ui.Header("Topics"), ui.CountBadge(len(topics), "topic", "topics"))
	for _, topic := range topics {
		fmt.Printf("  %s  %s\n", ui.Selector(topic.ID), topic.Title)
	}
	fmt.Println(ui.Hint("read one with: depgate docs <topic>"))
	return nil
}

func showDocsTopic(id string) error {
	content, err := fs.ReadFile(builtindocs.FS, path.Join(docsTopicDir, id+".md"))
	if err != nil {
		topics, listErr := listDocsTopics(builtindocs.FS)
		if listErr != nil {
			return fmt.Errorf("unknown docs topic %q", id)
		}
		ids := make([]string, len(topics))
		for i, topic := range topics {
			ids[i] = topic.ID
		}
		return fmt.Errorf("unknown docs topic %q (available: %s)", id, strings.Join(ids, ", "))
	}

	if isJSONOutput() {
		outputSuccess(map[string]string{"topic": id, "content": string(content)})
		return nil
	}

	if !docsStdoutIsTerminal() {
		fmt.Print(string(content))
		return nil
	}

	display := ui.NewDisplayContext()
	rendered, err := docsMarkdownRender(string(content), display.TermWidth)
	if err != nil {
		fmt.Print(string(content))
		return nil
	}
	fmt.Print(rendered)
	return nil
}

// listDocsTopics walks the embedded topic files, titling each by its
// first markdown heading.
func listDocsTopics(fsys fs.FS) ([]docsTopic, error) {
	entries, err := fs.ReadDir(fsys, docsTopicDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded docs: %w", err)
	}

	var topics []docsTopic
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		fsPath := path.Join(docsTopicDir, entry.Name())
		id := strings.TrimSuffix(entry.Name(), ".md")
		topics = append(topics, docsTopic{
			ID:    id,
			Title: docsTopicTitle(fsys, fsPath, id),
			Path:  fsPath,
		})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

func docsTopicTitle(fsys fs.FS, fsPath, fallback string) string {
	content, err := fs.ReadFile(fsys, fsPath)
	if err != nil {
		return fallback
	}
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
