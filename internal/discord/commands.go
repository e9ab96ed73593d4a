package discord

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/julianstephens/objectives/internal/models"
)

// Application command option types.
const (
	OptionString     = 3
	OptionAttachment = 11
)

// CommandTypeChatInput is a slash command.
const CommandTypeChatInput = 1

// Installation and interaction contexts.
var (
	integrationTypes = []int{0, 1}    // guild install, user install
	contexts         = []int{0, 1, 2} // guild, bot DM, private channel
)

// Command names.
const (
	CommandSubmit          = "submit"
	CommandCreateObjective = "create_objective"
	CommandListObjectives  = "list_objectives"
	CommandDeleteObjective = "delete_objective"
	CommandRename          = "rename"
	CommandVisibility      = "visibility"
)

// ApplicationCommand is a command definition as sent to the bulk overwrite
// endpoint.
type ApplicationCommand struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Options          []CommandOption `json:"options,omitempty"`
	Type             int             `json:"type"`
	IntegrationTypes []int           `json:"integration_types"`
	Contexts         []int           `json:"contexts"`
}

type CommandOption struct {
	Type        int            `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Required    bool           `json:"required,omitempty"`
	Choices     []OptionChoice `json:"choices,omitempty"`
}

type OptionChoice struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func choices[T ~string](values []T) []OptionChoice {
	title := cases.Title(language.English)
	out := make([]OptionChoice, 0, len(values))
	for _, v := range values {
		out = append(out, OptionChoice{Name: title.String(string(v)), Value: string(v)})
	}
	return out
}

func command(name, description string, options ...CommandOption) ApplicationCommand {
	return ApplicationCommand{
		Name:             name,
		Description:      description,
		Options:          options,
		Type:             CommandTypeChatInput,
		IntegrationTypes: integrationTypes,
		Contexts:         contexts,
	}
}

func stringOption(name, description string) CommandOption {
	return CommandOption{Type: OptionString, Name: name, Description: description, Required: true}
}

// Commands returns every slash command the bot serves.
func Commands() []ApplicationCommand {
	return []ApplicationCommand{
		command(CommandSubmit, "Submit an image with an objective",
			CommandOption{Type: OptionAttachment, Name: "image", Description: "Image to submit", Required: true},
			stringOption("objective", "Type your objective (*must match one you created*)"),
		),
		command(CommandCreateObjective, "Create a new objective for yourself",
			stringOption("name", "Objective name"),
			CommandOption{
				Type:        OptionString,
				Name:        "frequency",
				Description: "How often can this be submitted?",
				Required:    true,
				Choices:     choices(models.Frequencies()),
			},
		),
		command(CommandListObjectives, "List your objectives"),
		command(CommandDeleteObjective, "Delete one of your objectives forever",
			stringOption("name", "Objective name to delete"),
		),
		command(CommandRename, "Rename one of your objectives",
			stringOption("current_name", "Current objective name"),
			stringOption("new_name", "New objective name"),
		),
		command(CommandVisibility, "Choose who sees the bot's replies to your commands",
			CommandOption{
				Type:        OptionString,
				Name:        "mode",
				Description: "Private replies are only shown to you",
				Required:    true,
				Choices:     choices([]models.Visibility{models.VisibilityPrivate, models.VisibilityShared}),
			},
		),
	}
}

// InstallGlobalCommands replaces every global command of the application
// with commands.
func (c *Client) InstallGlobalCommands(ctx context.Context, appID string, commands []ApplicationCommand) ([]ApplicationCommand, error) {
	if appID == "" {
		return nil, fmt.Errorf("discord: application ID is required")
	}
	var installed []ApplicationCommand
	err := c.do(ctx, http.MethodPut, "/applications/"+url.PathEscape(appID)+"/commands", commands, &installed)
	return installed, err
}
