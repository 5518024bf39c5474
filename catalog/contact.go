package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ggoodman/candidate-mcp-server/candidate"
	"github.com/ggoodman/candidate-mcp-server/mailer"
	"github.com/ggoodman/candidate-mcp-server/mcp"
	"github.com/ggoodman/candidate-mcp-server/mcpservice"
)

const ContactCandidateTool = "contact_candidate"

type contactArgs struct {
	Subject      string `json:"subject" jsonschema:"description=Email subject line"`
	Message      string `json:"message" jsonschema:"description=Email message body"`
	ReplyAddress string `json:"reply_address" jsonschema:"description=Email address where the candidate can reply"`
}

// ContactTool returns the tool that relays a message to the candidate through
// sender. Every outcome, relay failure included, is reported as ordinary text
// so the client can pass it on conversationally.
func ContactTool(p *candidate.Profile, contact candidate.Contact, sender mailer.Sender, log *slog.Logger) mcpservice.StaticTool {
	if log == nil {
		log = slog.Default()
	}
	return mcpservice.NewTool[contactArgs](ContactCandidateTool,
		func(ctx context.Context, r *mcpservice.ToolRequest[contactArgs]) (res *mcp.CallToolResult) {
			defer func() {
				if v := recover(); v != nil {
					log.ErrorContext(ctx, "Failed to send email", slog.Any("panic", v))
					res = mcpservice.TextResult(fmt.Sprintf("Failed to send email: %v", v))
				}
			}()
			a := r.Args()
			err := sender.Send(ctx, mailer.Message{
				From:    contact.Sender(),
				To:      contact.Email,
				Subject: a.Subject,
				Text:    a.Message,
				ReplyTo: a.ReplyAddress,
			})
			if err != nil {
				log.ErrorContext(ctx, "Failed to send email", slog.String("err", err.Error()))
				return mcpservice.TextResult(fmt.Sprintf("Failed to send email: %v", err))
			}
			return mcpservice.TextResult(fmt.Sprintf("Email successfully sent to %s at %s", p.Name(), contact.Email))
		},
		mcpservice.WithToolDescription(fmt.Sprintf("Send an email to the candidate %s", p.Name())),
	)
}
