package report

import (
	"fmt"

	"github.com/slack-go/slack"

	"github.com/qualab-dev/qualab/pkg/config"
	"github.com/qualab-dev/qualab/pkg/logger"
	"github.com/qualab-dev/qualab/pkg/result"
)

// Notifier posts run summaries to a Slack webhook as Block Kit messages.
type Notifier struct {
	cfg          config.SlackConfig
	reportOnFail bool
}

// NewNotifier creates a Slack notifier. reportOnFail forces posting
// even when the run has failures.
func NewNotifier(cfg config.SlackConfig, reportOnFail bool) *Notifier {
	return &Notifier{cfg: cfg, reportOnFail: reportOnFail}
}

// Notify posts the summary to the configured webhook. Runs with
// failures are skipped unless reportOnFail is set.
func (n *Notifier) Notify(s Summary) error {
	if !n.cfg.Enabled {
		logger.Debug("slack reporting disabled, skipping notification")
		return nil
	}

	if s.Totals.Failed > 0 {
		if !n.reportOnFail {
			logger.Warn("failed test results detected, skipping slack notification")
			return nil
		}
		logger.Warn("forcing slack notification despite failed results")
	}

	msg := n.buildMessage(s)
	if err := slack.PostWebhook(n.cfg.WebhookURL, msg); err != nil {
		return fmt.Errorf("post slack webhook: %w", err)
	}
	logger.Info("posted run summary to slack channel %s", n.cfg.Channel)
	return nil
}

func (n *Notifier) buildMessage(s Summary) *slack.WebhookMessage {
	// Slack stopped supporting tabs in messages
	const spaces = "   "

	summaryText := fmt.Sprintf(":bar_chart:%s*%d*%s:white_check_mark:%s*%d* (%s)",
		spaces, s.Totals.Total, spaces, spaces, s.Totals.Passed, s.Totals.PassedPercentage)
	if s.Totals.Failed > 0 {
		summaryText += fmt.Sprintf("%s:x:%s*%d* (%s)",
			spaces, spaces, s.Totals.Failed, s.Totals.FailedPercentage)
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(
			slack.PlainTextType, fmt.Sprintf("Run Summary - Mobile - %s", s.RunID), true, false)),
		slack.NewContextBlock("run-context",
			slack.NewTextBlockObject(slack.MarkdownType, "Platform:\t"+platformEmoji(s.Platform), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, "Project:\t"+s.Project, false, false),
			slack.NewTextBlockObject(slack.MarkdownType, "Run time:\t"+result.FormatRunDuration(s.Duration), false, false),
		),
		slack.NewDividerBlock(),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, summaryText, false, false),
		}, nil),
	}

	if s.BuildURL != "" {
		button := slack.NewButtonBlockElement("qualab-build", "",
			slack.NewTextBlockObject(slack.PlainTextType, "Build", true, false))
		button.URL = s.BuildURL
		blocks = append(blocks, slack.NewActionBlock("run-links", button))
	}

	blocks = append(blocks,
		slack.NewDividerBlock(),
		slack.NewContextBlock("run-footer",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("Powered by *%s*", s.Project), false, false)))

	return &slack.WebhookMessage{
		Username: "qualab",
		Channel:  n.cfg.Channel,
		Text: fmt.Sprintf("%s: %d/%d passed (%s)",
			s.RunID, s.Totals.Passed, s.Totals.Total, s.Totals.PassedPercentage),
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}

func platformEmoji(platform string) string {
	switch platform {
	case "android":
		return ":android:"
	case "ios":
		return ":apple:"
	default:
		return platform
	}
}
