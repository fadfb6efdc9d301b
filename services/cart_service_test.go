package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hellodine/models"
)

func TestCartAddLineComputesTotals(t *testing.T) {
	env := newTestEnv(t)

	cart := env.add(t, 1001, env.fx.PaneerTikka, 2)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "Paneer Tikka", cart.Lines[0].MenuItem.Name)
	requireMoney(t, "220.00", cart.Lines[0].UnitPrice, "unit_price")
	requireMoney(t, "440.00", cart.Lines[0].LineTotal, "line_total")
	requireMoney(t, "440.00", cart.Subtotal, "subtotal")
	requireMoney(t, "11.00", cart.CGST, "cgst")
	requireMoney(t, "11.00", cart.SGST, "sgst")
	requireMoney(t, "0.00", cart.RoundOff, "round_off")
	requireMoney(t, "462.00", cart.Total, "total")
	assert.Equal(t, models.CartOpen, cart.Status)
}

func TestCartAddLineWithVariantAndModifier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.carts.AddLine(ctx, 1001, LineInput{ItemID: env.fx.Lassi.ID, VariantID: &env.fx.LassiLarge.ID, Quantity: 1})
	require.NoError(t, err)
	cart, err := env.carts.AddLine(ctx, 1001, LineInput{ItemID: env.fx.Naan.ID, ModifierIDs: []uint{env.fx.ButterTopup.ID}, Quantity: 2, Notes: " crispy "})
	require.NoError(t, err)

	require.Len(t, cart.Lines, 2)
	requireMoney(t, "120.00", cart.Lines[0].UnitPrice, "variant price")
	require.Len(t, cart.Lines[1].Modifiers, 1)
	assert.Equal(t, "Extra Butter", cart.Lines[1].Modifiers[0].NameSnapshot)
	assert.Equal(t, "crispy", cart.Lines[1].Notes)
	requireMoney(t, "150.00", cart.Lines[1].LineTotal, "naan line")

	// 120 @12% + 150 @5%: cgst 7.20 + 3.75
	requireMoney(t, "270.00", cart.Subtotal, "subtotal")
	requireMoney(t, "10.95", cart.CGST, "cgst")
	requireMoney(t, "0.10", cart.RoundOff, "round_off")
	requireMoney(t, "292.00", cart.Total, "total")
}

func TestCartSnapshotsPriceAtAdd(t *testing.T) {
	env := newTestEnv(t)

	env.add(t, 1001, env.fx.PaneerTikka, 1)
	require.NoError(t, env.db.Model(&models.MenuItem{}).Where("id = ?", env.fx.PaneerTikka.ID).Update("base_price", money("300")).Error)
	cart := env.add(t, 1001, env.fx.PaneerTikka, 1)

	requireMoney(t, "220.00", cart.Lines[0].UnitPrice, "first line keeps old price")
	requireMoney(t, "300.00", cart.Lines[1].UnitPrice, "second line uses new price")
	requireMoney(t, "520.00", cart.Subtotal, "subtotal")
}

func TestCartUpdateQuantityToZeroEqualsRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.add(t, 1001, env.fx.PaneerTikka, 2)
	cart := env.add(t, 1001, env.fx.Lassi, 1)
	lassiLine := cart.Lines[1].ID

	updated, err := env.carts.UpdateQuantity(ctx, 1001, lassiLine, 0)
	require.NoError(t, err)

	reference := env.add(t, 2002, env.fx.PaneerTikka, 2)

	require.Len(t, updated.Lines, 1)
	assert.True(t, updated.Subtotal.Equal(reference.Subtotal))
	assert.True(t, updated.CGST.Equal(reference.CGST))
	assert.True(t, updated.Total.Equal(reference.Total))

	_, err = env.carts.RemoveLine(ctx, 1001, lassiLine)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestCartUpdateQuantity(t *testing.T) {
	env := newTestEnv(t)

	cart := env.add(t, 1001, env.fx.PaneerTikka, 1)
	cart, err := env.carts.UpdateQuantity(context.Background(), 1001, cart.Lines[0].ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, cart.Lines[0].Quantity)
	requireMoney(t, "660.00", cart.Lines[0].LineTotal, "line_total")
	requireMoney(t, "693.00", cart.Total, "total")
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCartRejectsUnavailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.db.Model(&models.MenuItem{}).Where("id = ?", env.fx.ChickenTikka.ID).Update("is_available", false).Error)
	require.NoError(t, env.db.Model(&models.MenuModifier{}).Where("id = ?", env.fx.ButterTopup.ID).Update("is_available", false).Error)

	_, err := env.carts.AddLine(ctx, 1001, LineInput{ItemID: env.fx.ChickenTikka.ID, Quantity: 1})
	require.ErrorIs(t, err, ErrItemUnavailable)
	var unavailable *ItemUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "Chicken Tikka", unavailable.Item)

	_, err = env.carts.AddLine(ctx, 1001, LineInput{ItemID: env.fx.Naan.ID, ModifierIDs: []uint{env.fx.ButterTopup.ID}, Quantity: 1})
	require.ErrorIs(t, err, ErrItemUnavailable)

	_, err = env.carts.AddLine(ctx, 1001, LineInput{ItemID: 9999, Quantity: 1})
	require.ErrorIs(t, err, ErrItemUnavailable)

	cart, err := env.carts.View(ctx, 1001)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestCartRejectsBadQuantity(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.carts.AddLine(context.Background(), 1001, LineInput{ItemID: env.fx.PaneerTikka.ID, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartLinesAreScopedToSession(t *testing.T) {
	env := newTestEnv(t)

	cart := env.add(t, 1001, env.fx.PaneerTikka, 1)
	_, err := env.carts.RemoveLine(context.Background(), 2002, cart.Lines[0].ID)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestCartGetOrCreateIsStable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.carts.GetOrCreate(ctx, 1001)
	require.NoError(t, err)
	second, err := env.carts.GetOrCreate(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, env.db.Model(&models.Cart{}).Where("session_id = ?", 1001).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindLineByItemName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.add(t, 1001, env.fx.PaneerTikka, 1)
	env.add(t, 1001, env.fx.Lassi, 1)

	line, err := env.carts.FindLineByItemName(ctx, 1001, "lassi")
	require.NoError(t, err)
	assert.Equal(t, env.fx.Lassi.ID, line.MenuItemID)

	line, err = env.carts.FindLineByItemName(ctx, 1001, "Paneer Tikka")
	require.NoError(t, err)
	assert.Equal(t, env.fx.PaneerTikka.ID, line.MenuItemID)

	_, err = env.carts.FindLineByItemName(ctx, 1001, "biryani")
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestViewWithoutCart(t *testing.T) {
	env := newTestEnv(t)
	cart, err := env.carts.View(context.Background(), 1001)
	require.NoError(t, err)
	assert.Zero(t, cart.ID)
	assert.Empty(t, cart.Lines)
	assert.True(t, cart.Total.IsZero())
}
