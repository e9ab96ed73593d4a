package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/objectives/internal/constants"
	"github.com/julianstephens/objectives/internal/discord"
	"github.com/julianstephens/objectives/internal/engine"
	"github.com/julianstephens/objectives/internal/logger"
	"github.com/julianstephens/objectives/internal/models"
)

const (
	msgNoUser           = "Could not tell who sent this command."
	msgInternal         = "Something went wrong. Please try again later."
	msgMissingBoth      = "Missing both image and objective."
	msgMissingImage     = "Missing image."
	msgMissingObjective = "Missing objective."
	msgNoObjectives     = "You have no objectives."
)

// fail is an error reply. Errors are only ever shown to the invoker.
func fail(content string) discord.InteractionResponse {
	return discord.Reply(content, true)
}

func internalError(command string, err error) discord.InteractionResponse {
	logger.Error("Command failed", "command", command, "error", err)
	return fail(msgInternal)
}

// ephemeral reports whether successful replies to the owner are private.
// A preference that cannot be loaded counts as private.
func (s *Server) ephemeral(ctx context.Context, ownerID string) bool {
	pref, err := s.svc.Preference(ctx, ownerID)
	if err != nil {
		logger.Warn("Failed to load preference, replying privately", "owner", ownerID, "error", err)
		return true
	}
	return pref.Ephemeral()
}

func streakSuffix(streak int, sep string) string {
	if streak > constants.StreakDisplayThreshold {
		return fmt.Sprintf("%sStreak: %d 🔥", sep, streak)
	}
	return ""
}

func (s *Server) submit(ctx context.Context, ownerID string, in discord.Interaction) discord.InteractionResponse {
	attachment, hasImage := in.AttachmentOption("image")
	name := in.Data.StringOption("objective")

	switch {
	case !hasImage && name == "":
		return fail(msgMissingBoth)
	case !hasImage:
		return fail(msgMissingImage)
	case name == "":
		return fail(msgMissingObjective)
	}

	result, err := s.svc.TrySubmit(ctx, ownerID, name)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return fail(fmt.Sprintf("Objective %q not found. Please create it first with /%s.", name, discord.CommandCreateObjective))
	case err != nil:
		return internalError(discord.CommandSubmit, err)
	case !result.Accepted:
		return fail(fmt.Sprintf("You have already submitted **%s**. Try again %s.", name, discord.RelativeTime(result.RetryAt)))
	}

	embeds := []discord.Embed{
		{
			Description: fmt.Sprintf("Objective '%s' completed!", name) + streakSuffix(result.Streak, "\n"),
			Image:       &discord.EmbedImage{URL: attachment.URL},
		},
		{
			Description: fmt.Sprintf("%s will be able to submit this objective again %s", discord.Mention(ownerID), discord.RelativeTime(result.NextWindowOpen)),
		},
	}
	return discord.EmbedReply(embeds, s.ephemeral(ctx, ownerID))
}

func (s *Server) createObjective(ctx context.Context, ownerID string, in discord.Interaction) discord.InteractionResponse {
	name := in.Data.StringOption("name")
	frequency := in.Data.StringOption("frequency")
	if name == "" || frequency == "" {
		return fail("Objective name and frequency are required.")
	}

	obj, err := s.svc.CreateObjective(ctx, ownerID, name, frequency)
	switch {
	case errors.Is(err, engine.ErrConflict):
		return fail(fmt.Sprintf("Objective %q already exists.", name))
	case errors.Is(err, engine.ErrInvalidName):
		return fail(fmt.Sprintf("Objective names must be 1 to %d characters without control characters.", constants.MaxObjectiveNameLength))
	case errors.Is(err, engine.ErrInvalidFrequency):
		return fail(fmt.Sprintf("Frequency must be one of %s.", strings.Join(models.FrequencyNames(), ", ")))
	case err != nil:
		return internalError(discord.CommandCreateObjective, err)
	}

	return discord.Reply(fmt.Sprintf("Objective %q (%s) created!", obj.Name, obj.Frequency), s.ephemeral(ctx, ownerID))
}

func (s *Server) listObjectives(ctx context.Context, ownerID string, _ discord.Interaction) discord.InteractionResponse {
	statuses, err := s.svc.ListObjectives(ctx, ownerID)
	if err != nil {
		return internalError(discord.CommandListObjectives, err)
	}
	ephemeral := s.ephemeral(ctx, ownerID)
	if len(statuses) == 0 {
		return discord.Reply(msgNoObjectives, ephemeral)
	}

	var b strings.Builder
	b.WriteString("Your objectives:")
	for _, st := range statuses {
		when := "Available now"
		if !st.Available {
			when = discord.RelativeTime(st.NextAllowed)
		}
		fmt.Fprintf(&b, "\n- *%s* (%s) - %s%s", st.Name, st.Frequency, when, streakSuffix(st.Streak, " | "))
	}
	return discord.Reply(b.String(), ephemeral)
}

func (s *Server) deleteObjective(ctx context.Context, ownerID string, in discord.Interaction) discord.InteractionResponse {
	name := in.Data.StringOption("name")
	if name == "" {
		return fail("Objective name is required.")
	}

	err := s.svc.DeleteObjective(ctx, ownerID, name)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return fail(fmt.Sprintf("Objective %q not found.", name))
	case err != nil:
		return internalError(discord.CommandDeleteObjective, err)
	}
	return discord.Reply(fmt.Sprintf("Objective %q has been deleted forever.", name), s.ephemeral(ctx, ownerID))
}

func (s *Server) rename(ctx context.Context, ownerID string, in discord.Interaction) discord.InteractionResponse {
	current := in.Data.StringOption("current_name")
	next := in.Data.StringOption("new_name")
	if current == "" || next == "" {
		return fail("Both current name and new name are required.")
	}

	_, err := s.svc.RenameObjective(ctx, ownerID, current, next)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return fail(fmt.Sprintf("Objective %q not found.", current))
	case errors.Is(err, engine.ErrConflict):
		return fail(fmt.Sprintf("An objective with the name %q already exists.", next))
	case errors.Is(err, engine.ErrInvalidName):
		return fail(fmt.Sprintf("Objective names must be 1 to %d characters without control characters.", constants.MaxObjectiveNameLength))
	case err != nil:
		return internalError(discord.CommandRename, err)
	}
	return discord.Reply(fmt.Sprintf("Objective %q has been renamed to %q.", current, next), s.ephemeral(ctx, ownerID))
}

func (s *Server) visibility(ctx context.Context, ownerID string, in discord.Interaction) discord.InteractionResponse {
	v, err := models.ParseVisibility(in.Data.StringOption("mode"))
	if err != nil {
		return fail("Visibility must be private or shared.")
	}

	pref, err := s.svc.SetVisibility(ctx, ownerID, v)
	if err != nil {
		return internalError(discord.CommandVisibility, err)
	}
	if pref.Ephemeral() {
		return discord.Reply("Replies to your commands are now only visible to you.", true)
	}
	return discord.Reply("Replies to your commands are now visible to everyone in the channel.", false)
}
