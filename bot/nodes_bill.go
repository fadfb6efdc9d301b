package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/hellodine/utils"
)

const answerTimeout = 10 * time.Second

func (b *Bot) bill(ctx context.Context, st *State) error {
	lang := st.lang()
	bill, err := b.deps.Bills.GenerateForSession(ctx, st.Session.ID)
	if err != nil {
		return err
	}

	var lines []string
	for _, o := range bill.Orders {
		for _, l := range o.Lines {
			name := l.ItemNameSnapshot
			if l.VariantNameSnapshot != "" {
				name = fmt.Sprintf("%s (%s)", name, l.VariantNameSnapshot)
			}
			lines = append(lines, fmt.Sprintf("• %s ×%d — %s", name, l.Quantity, utils.FormatRupee(l.LineTotal)))
		}
	}

	rule := strings.Repeat("─", 20)
	body := t(lang, "bill_title", bill.BillNumber) + "\n\n" +
		strings.Join(lines, "\n") + "\n" + rule + "\n" +
		totalsBlock(lang, bill.Subtotal, bill.CGST, bill.SGST, bill.RoundOff, bill.Total) + "\n" + rule + "\n\n" +
		t(lang, "bill_footer")
	st.Response = Text(body)
	return nil
}

func totalsBlock(lang string, subtotal, cgst, sgst, roundOff, total decimal.Decimal) string {
	out := []string{
		fmt.Sprintf("%s: %s", t(lang, "subtotal"), utils.FormatRupee(subtotal)),
		fmt.Sprintf("CGST: %s", utils.FormatRupee(cgst)),
		fmt.Sprintf("SGST: %s", utils.FormatRupee(sgst)),
	}
	if !roundOff.IsZero() {
		out = append(out, fmt.Sprintf("%s: %s", t(lang, "round_off"), utils.FormatRupee(roundOff)))
	}
	out = append(out, fmt.Sprintf("💵 *%s: %s*", t(lang, "total"), utils.FormatRupee(total)))
	return strings.Join(out, "\n")
}

// chat answers small talk and questions about the restaurant. Any failure of
// the answerer falls back to a fixed friendly reply.
func (b *Bot) chat(ctx context.Context, st *State) error {
	fallback := Text(t(st.lang(), "chat_fallback", st.Restaurant.Name))
	if b.deps.Answerer == nil {
		st.Response = fallback
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, answerTimeout)
	defer cancel()
	reply, err := b.deps.Answerer.Answer(ctx, b.chatInstruction(st), st.Inbound.Text)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			utils.ErrorLogger.Warnf("chat answer failed: %v", err)
		}
		st.Response = fallback
		return nil
	}
	st.Response = Text(strings.TrimSpace(reply))
	return nil
}

func (b *Bot) chatInstruction(st *State) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a helpful, friendly and professional assistant for %s.\n", st.Restaurant.Name)
	branch := st.Session.Branch
	if branch.Address != "" {
		loc := []string{branch.Address}
		for _, part := range []string{branch.City, branch.State, branch.Pincode} {
			if part != "" {
				loc = append(loc, part)
			}
		}
		fmt.Fprintf(&sb, "This branch is located at %s.\n", strings.Join(loc, ", "))
	}
	sb.WriteString(`
Guidelines:
1. Answer questions about the restaurant, its food, culture and services.
2. If asked about ratings or staff, be polite and say we strive for excellence.
3. Keep answers concise (max 2-3 sentences).
4. Do NOT make up menu prices.
5. If the customer wants to order, guide them to say "show menu".
6. Use emojis to be friendly.`)
	if st.lang() == "hi" {
		sb.WriteString("\n7. Reply in Hindi.")
	}
	return sb.String()
}
