package email

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// Template is the email_template.json file. Placeholders look like
// {{product_name}}.
type Template struct {
	Subject    string `json:"subject"`
	HTMLBody   string `json:"html_body"`
	TextBody   string `json:"text_body"`
	SenderName string `json:"sender_name"`
}

func DefaultTemplate() Template {
	return Template{
		Subject:    "Order Confirmation - {{product_name}}",
		HTMLBody:   defaultHTMLBody,
		TextBody:   defaultTextBody,
		SenderName: "Receipt Bot",
	}
}

// LoadTemplate reads the template file at path. A missing file yields the
// default template; keys missing from the file keep their defaults.
func LoadTemplate(path string) (Template, error) {
	tmpl := DefaultTemplate()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("email template not found, using default", "path", path)
		return tmpl, nil
	}
	if err != nil {
		return Template{}, fmt.Errorf("email:LoadTemplate: can't read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return Template{}, fmt.Errorf("email:LoadTemplate: can't parse %s: %w", path, err)
	}
	return tmpl, nil
}

// Render substitutes values into the template. Values going into the HTML
// body are escaped; unknown placeholders are left as they are.
func (t Template) Render(to string, values map[string]string) Message {
	plain := make([]string, 0, len(values)*2)
	escaped := make([]string, 0, len(values)*2)
	for k, v := range values {
		token := "{{" + k + "}}"
		plain = append(plain, token, v)
		escaped = append(escaped, token, html.EscapeString(v))
	}
	plainReplacer := strings.NewReplacer(plain...)
	return Message{
		To:       to,
		Subject:  plainReplacer.Replace(t.Subject),
		HTMLBody: strings.NewReplacer(escaped...).Replace(t.HTMLBody),
		TextBody: plainReplacer.Replace(t.TextBody),
	}
}

const defaultHTMLBody = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Order Confirmation</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; background-color: #f4f4f4; padding: 20px;">
<div style="max-width: 600px; margin: 0 auto; background: white; padding: 20px; border-radius: 10px;">
<h1 style="color: #007bff;">Order Confirmation</h1>
<p>Hello <strong>{{customer_name}}</strong>,</p>
<p>We've received your order and it's being processed. Here are the details:</p>
<div style="background: #f8f9fa; padding: 15px; border-radius: 5px;">
<p><strong>Order Number:</strong> {{order_number}}</p>
<p><strong>Product:</strong> {{product_name}}</p>
<p><strong>Style ID:</strong> {{style_id}}</p>
<p><strong>Size:</strong> {{product_size}}</p>
<p><strong>Color:</strong> {{color}}</p>
<p><strong>Condition:</strong> {{product_condition}}</p>
<p><strong>Price:</strong> {{purchase_price}}</p>
<p><strong>Estimated Arrival:</strong> {{estimated_arrival_start_date}} to {{estimated_arrival_end_date}}</p>
<p><strong>Shipping To:</strong> {{shipping_address}}</p>
<p><strong>Order Date:</strong> {{order_date}}</p>
<p><strong>Order ID:</strong> {{order_id}}</p>
</div>
<p>If you have any questions about your order, please don't hesitate to contact us.</p>
</div>
</body>
</html>`

const defaultTextBody = `ORDER CONFIRMATION

Hello {{customer_name}},

Thank you for your order! Here are the details:

- Order Number: {{order_number}}
- Product: {{product_name}}
- Size: {{product_size}}
- Price: {{purchase_price}}
- Shipping To: {{shipping_address}}
- Order Date: {{order_date}}
- Order ID: {{order_id}}

If you have any questions, please contact us.
`
