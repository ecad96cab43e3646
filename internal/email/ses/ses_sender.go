package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"indentflow/internal/domain"
	"indentflow/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) SendPurchaseOrderEmail(ctx context.Context, toEmail, toName string, po *domain.PurchaseOrder, downloadURL string) error {
	subject := fmt.Sprintf("Purchase Order %s from %s", po.PONumber, po.FirmName)
	htmlBody := buildPurchaseOrderHTML(toName, po, downloadURL)
	textBody := buildPurchaseOrderText(toName, po, downloadURL)
	return s.send(ctx, []string{toEmail}, subject, htmlBody, textBody)
}

func (s *sesSender) SendOverdueDigest(ctx context.Context, toEmail string, items []domain.OverdueItem) error {
	subject := fmt.Sprintf("%d procurement stages overdue", len(items))
	return s.send(ctx, []string{toEmail}, subject, buildOverdueHTML(items, s.frontendURL), buildOverdueText(items))
}

func (s *sesSender) send(ctx context.Context, to []string, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: to,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildPurchaseOrderText(name string, po *domain.PurchaseOrder, downloadURL string) string {
	return fmt.Sprintf("Dear %s,\n\nPlease find purchase order %s from %s for a total of %s.\nDownload: %s\n\nKindly confirm the delivery schedule.\n\n%s Purchase Team",
		name, po.PONumber, po.FirmName, po.Total.StringFixed(2), downloadURL, po.FirmName)
}

func buildPurchaseOrderHTML(name string, po *domain.PurchaseOrder, downloadURL string) string {
	var rows strings.Builder
	for _, l := range po.Lines {
		fmt.Fprintf(&rows, `<tr><td>%s</td><td style="text-align:right">%s %s</td><td style="text-align:right">%s</td></tr>`,
			html.EscapeString(l.ProductName), l.Quantity.String(), html.EscapeString(l.UOM), l.Amount.StringFixed(2))
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Purchase Order %s</h2>
  <p>Dear %s,</p>
  <p>Please find our purchase order below. The signed copy is attached at the link.</p>
  <table style="width: 100%%; border-collapse: collapse;" border="1" cellpadding="6">
    <tr style="background-color: #D9E1F2;"><th>Item</th><th>Quantity</th><th>Amount</th></tr>
    %s
    <tr><td colspan="2" style="text-align:right"><b>Total</b></td><td style="text-align:right"><b>%s</b></td></tr>
  </table>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Download PO</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">%s Purchase Team</p>
</body>
</html>`, html.EscapeString(po.PONumber), html.EscapeString(name), rows.String(),
		po.Total.StringFixed(2), html.EscapeString(downloadURL), html.EscapeString(po.FirmName))
}

func buildOverdueText(items []domain.OverdueItem) string {
	var b strings.Builder
	b.WriteString("The following stages are overdue:\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "- %s %s (%s): %s planned %s\n",
			it.EntityType, it.Number, it.FirmName, it.Stage, it.PlannedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}

func buildOverdueHTML(items []domain.OverdueItem, frontendURL string) string {
	var rows strings.Builder
	for _, it := range items {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(it.Number), html.EscapeString(it.FirmName),
			html.EscapeString(string(it.Stage)), it.PlannedAt.Format("2006-01-02 15:04"))
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Overdue procurement stages</h2>
  <table style="width: 100%%; border-collapse: collapse;" border="1" cellpadding="6">
    <tr style="background-color: #D9E1F2;"><th>Number</th><th>Firm</th><th>Stage</th><th>Planned</th></tr>
    %s
  </table>
  <p><a href="%s">Open dashboard</a></p>
</body>
</html>`, rows.String(), html.EscapeString(frontendURL))
}
