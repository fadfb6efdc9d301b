package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeremiapane/hellodine/intent"
	"github.com/yeremiapane/hellodine/models"
	"github.com/yeremiapane/hellodine/services"
	"github.com/yeremiapane/hellodine/utils"
)

var spiceMarks = map[string]string{"mild": "🌶", "medium": "🌶🌶", "hot": "🌶🌶🌶"}

func vegMark(veg bool) string {
	if veg {
		return "🟢"
	}
	return "🔴"
}

// menu welcomes a freshly paired customer with the categories, or lists items
// narrowed by category, diet or a name hint.
func (b *Bot) menu(ctx context.Context, st *State) error {
	lang := st.lang()
	branchID := st.Session.BranchID
	e := st.Entities

	if st.Intent == intent.QRScan {
		categories, err := b.categoryList(ctx, st)
		if err != nil {
			return err
		}
		categories.Body = t(lang, "welcome", st.Restaurant.Name, st.Session.Table.TableNumber)
		st.Response = categories
		return nil
	}

	var items []models.MenuItem
	var err error
	switch {
	case e.CategoryID != nil:
		items, err = b.deps.Menu.ItemsByCategory(ctx, branchID, *e.CategoryID)
	case e.IsVeg != nil:
		items, err = b.deps.Menu.ItemsByDiet(ctx, branchID, *e.IsVeg)
	case st.itemName() != "":
		items, err = b.deps.Menu.Search(ctx, branchID, st.itemName())
		if err == nil && len(items) == 0 {
			items, err = b.deps.Menu.Available(ctx, branchID)
		}
	default:
		st.Response, err = b.categoryList(ctx, st)
		return err
	}
	if err != nil {
		return err
	}
	if len(items) == 0 {
		st.Response = Text(t(lang, "menu_empty"))
		return nil
	}

	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, itemRow(item))
	}
	st.Response = List(t(lang, "items_body"), t(lang, "items_button"),
		Section{Title: t(lang, "items_section"), Rows: rows})
	return nil
}

func (b *Bot) categoryList(ctx context.Context, st *State) (*Response, error) {
	lang := st.lang()
	categories, err := b.deps.Menu.Categories(ctx, st.Session.BranchID)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(categories))
	for _, c := range categories {
		row := Row{ID: fmt.Sprintf("cat_%d", c.ID), Title: c.Name}
		if c.EstimatedPrepMinutes != nil {
			row.Description = fmt.Sprintf("~%d min", *c.EstimatedPrepMinutes)
		}
		rows = append(rows, row)
	}
	return List(t(lang, "categories_body"), t(lang, "categories_button"),
		Section{Title: t(lang, "categories_section"), Rows: rows}), nil
}

func itemRow(item models.MenuItem) Row {
	desc := utils.FormatRupee(item.BasePrice)
	if mark := spiceMarks[item.SpiceLevel]; mark != "" {
		desc += " " + mark
	}
	return Row{
		ID:          fmt.Sprintf("item_%d", item.ID),
		Title:       vegMark(item.IsVeg) + " " + item.Name,
		Description: desc,
	}
}

// lookupItem resolves the item named by the entities, with its available
// variants and modifiers. ok is false when the message named no item.
func (b *Bot) lookupItem(ctx context.Context, st *State) (item *models.MenuItem, ok bool, err error) {
	branchID := st.Session.BranchID
	switch {
	case st.Entities.ItemID != nil:
		item, err = b.deps.Menu.Item(ctx, branchID, *st.Entities.ItemID)
	case st.itemName() != "":
		var found *models.MenuItem
		found, err = b.deps.Menu.FindByName(ctx, branchID, st.itemName())
		if err == nil {
			item, err = b.deps.Menu.Item(ctx, branchID, found.ID)
		}
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return item, true, nil
}

func (b *Bot) itemInfo(ctx context.Context, st *State) error {
	lang := st.lang()
	item, ok, err := b.lookupItem(ctx, st)
	if err != nil {
		return err
	}
	if !ok {
		st.Response = Text(t(lang, "ask_item_info"))
		return nil
	}
	if !item.IsAvailable {
		return &services.ItemUnavailableError{Item: item.Name}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *%s*", vegMark(item.IsVeg), item.Name)
	if mark := spiceMarks[item.SpiceLevel]; mark != "" {
		sb.WriteString(" " + mark)
	}
	if item.Description != "" {
		sb.WriteString("\n" + item.Description)
	}
	fmt.Fprintf(&sb, "\n\n💰 %s: %s", t(lang, "price"), utils.FormatRupee(item.BasePrice))
	if len(item.Variants) > 0 {
		fmt.Fprintf(&sb, "\n📏 %s:", t(lang, "variants"))
		for _, v := range item.Variants {
			fmt.Fprintf(&sb, "\n• %s %s", v.Name, utils.FormatRupee(v.Price))
		}
	}
	if len(item.Modifiers) > 0 {
		fmt.Fprintf(&sb, "\n➕ %s:", t(lang, "addons"))
		for _, m := range item.Modifiers {
			fmt.Fprintf(&sb, "\n• %s +%s", m.Name, utils.FormatRupee(m.PriceDelta))
		}
	}

	st.Response = Buttons(sb.String(),
		Button{ID: fmt.Sprintf("item_%d", item.ID), Title: t(lang, "btn_add")},
		Button{ID: "show_menu", Title: t(lang, "btn_menu")},
	)
	return nil
}
