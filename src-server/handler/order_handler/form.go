package order_handler

import (
	"orderbot/src-server/order"

	"github.com/bwmarrin/discordgo"
)

type field struct {
	key         string
	label       string
	style       discordgo.TextInputStyle
	required    bool
	maxLength   int
	placeholder string
	// where the value lives on the order
	ref func(o *order.Order) *string
}

// form is one modal of the chain. Discord allows at most 5 inputs per modal.
type form struct {
	customID string
	title    string
	step     order.Step
	fields   []field
}

var step1Form = form{
	customID: "order_form_step1",
	title:    "Order Details - Step 1",
	step:     order.AwaitingStep1,
	fields: []field{
		{key: order.KeyOrderNumber, label: "Order Number", style: discordgo.TextInputShort, required: true, maxLength: 100,
			ref: func(o *order.Order) *string { return &o.OrderNumber }},
		{key: order.KeyArrivalStart, label: "Arrival Start", style: discordgo.TextInputShort, required: true, maxLength: 100,
			placeholder: "e.g. next monday, 2024-06-01",
			ref:         func(o *order.Order) *string { return &o.ArrivalStart }},
		{key: order.KeyArrivalEnd, label: "Arrival End", style: discordgo.TextInputShort, required: true, maxLength: 100,
			ref: func(o *order.Order) *string { return &o.ArrivalEnd }},
		{key: order.KeyImageURL, label: "Image URL", style: discordgo.TextInputShort, required: true, maxLength: 500,
			placeholder: "https://",
			ref:         func(o *order.Order) *string { return &o.ImageURL }},
		{key: order.KeyProductName, label: "Product Name", style: discordgo.TextInputShort, required: true, maxLength: 200,
			ref: func(o *order.Order) *string { return &o.ProductName }},
	},
}

var step2Form = form{
	customID: "order_form_step2",
	title:    "Order Details - Step 2",
	step:     order.AwaitingStep2,
	fields: []field{
		{key: order.KeyStyleID, label: "Style ID", style: discordgo.TextInputShort, required: true, maxLength: 100,
			ref: func(o *order.Order) *string { return &o.StyleID }},
		{key: order.KeySize, label: "Product Size", style: discordgo.TextInputShort, required: true, maxLength: 50,
			ref: func(o *order.Order) *string { return &o.Size }},
		{key: order.KeyCondition, label: "Condition", style: discordgo.TextInputShort, required: true, maxLength: 100,
			ref: func(o *order.Order) *string { return &o.Condition }},
		{key: order.KeyPrice, label: "Purchase Price", style: discordgo.TextInputShort, required: true, maxLength: 50,
			ref: func(o *order.Order) *string { return &o.Price }},
		{key: order.KeyColor, label: "Color", style: discordgo.TextInputShort, required: true, maxLength: 100,
			ref: func(o *order.Order) *string { return &o.Color }},
	},
}

var step3Form = form{
	customID: "order_form_step3",
	title:    "Order Details - Step 3",
	step:     order.AwaitingStep3,
	fields: []field{
		{key: order.KeyShippingAddress, label: "Shipping Address", style: discordgo.TextInputParagraph, required: true, maxLength: 1000,
			ref: func(o *order.Order) *string { return &o.ShippingAddress }},
		{key: order.KeyEmail, label: "Email", style: discordgo.TextInputShort, required: true, maxLength: 254,
			placeholder: "you@example.com",
			ref:         func(o *order.Order) *string { return &o.Email }},
		{key: order.KeyNotes, label: "Additional Notes", style: discordgo.TextInputParagraph, required: false, maxLength: 1000,
			ref: func(o *order.Order) *string { return &o.Notes }},
	},
}

// components builds the modal rows, prefilled from o.
func (f form) components(o order.Order) []discordgo.MessageComponent {
	rows := make([]discordgo.MessageComponent, 0, len(f.fields))
	for _, fd := range f.fields {
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    fd.key,
					Label:       fd.label,
					Style:       fd.style,
					Required:    fd.required,
					MaxLength:   fd.maxLength,
					Placeholder: fd.placeholder,
					Value:       *fd.ref(&o),
				},
			},
		})
	}
	return rows
}

// apply copies the submitted values onto o verbatim.
func (f form) apply(o *order.Order, values map[string]string) {
	for _, fd := range f.fields {
		*fd.ref(o) = values[fd.key]
	}
}

// modalValues flattens a modal submit into custom ID -> value.
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	var walk func(components []discordgo.MessageComponent)
	walk = func(components []discordgo.MessageComponent) {
		for _, c := range components {
			switch c := c.(type) {
			case *discordgo.ActionsRow:
				walk(c.Components)
			case discordgo.ActionsRow:
				walk(c.Components)
			case *discordgo.TextInput:
				values[c.CustomID] = c.Value
			case discordgo.TextInput:
				values[c.CustomID] = c.Value
			}
		}
	}
	walk(data.Components)
	return values
}
