// Package bot routes one inbound chat message through session resolution,
// intent classification and a single branch handler to a reply.
package bot

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hellodine/intent"
	"github.com/yeremiapane/hellodine/kds"
	"github.com/yeremiapane/hellodine/services"
	"github.com/yeremiapane/hellodine/utils"
)

// ErrNoSender marks a delivery without a sender id; there is nobody to reply to.
var ErrNoSender = errors.New("message has no sender")

// Answerer generates a free-form reply for small talk and restaurant questions.
type Answerer interface {
	Answer(ctx context.Context, system, text string) (string, error)
}

// Notifier pushes kitchen events without blocking the caller.
type Notifier interface {
	BroadcastAsync(branchID uint, msg kds.Message)
}

type Deps struct {
	Sessions   *services.SessionService
	Menu       *services.MenuService
	Carts      *services.CartService
	Orders     *services.OrderService
	Bills      *services.BillService
	Classifier *intent.Classifier
	// Answerer and Notifier are optional.
	Answerer Answerer
	Notifier Notifier
}

type Bot struct {
	deps Deps
}

func New(deps Deps) *Bot {
	return &Bot{deps: deps}
}

// Graph builds a fresh router graph.
func (b *Bot) Graph() *Graph {
	g := NewGraph(NodeIngest)

	g.AddNode(NodeIngest, b.ingest)
	g.AddNode(NodeResolveSession, b.resolveSession)
	g.AddNode(NodeDetectLanguage, b.detectLanguage)
	g.AddNode(NodeClassify, b.classify)
	g.AddNode(NodeMenu, b.menu)
	g.AddNode(NodeItemInfo, b.itemInfo)
	g.AddNode(NodeCart, b.cart)
	g.AddNode(NodeCheckoutPreview, b.checkoutPreview)
	g.AddNode(NodePlaceOrder, b.placeOrder)
	g.AddNode(NodeBill, b.bill)
	g.AddNode(NodeChat, b.chat)
	g.AddNode(NodeFormat, b.format)

	for _, step := range [][2]string{
		{NodeIngest, NodeResolveSession},
		{NodeResolveSession, NodeDetectLanguage},
		{NodeDetectLanguage, NodeClassify},
	} {
		g.AddConditionalEdges(step[0], unlessError(step[1]), identityRoutes(step[1], NodeFormat))
	}

	branches := []string{NodeMenu, NodeItemInfo, NodeCart, NodeCheckoutPreview, NodePlaceOrder, NodeBill, NodeChat}
	g.AddConditionalEdges(NodeClassify, func(st *State) string {
		return RouteAfterIntent(st.Intent, st.Err != nil)
	}, identityRoutes(append(branches, NodeFormat)...))

	for _, n := range branches {
		g.AddEdge(n, NodeFormat)
	}
	g.AddEdge(NodeFormat, End)
	return g
}

// Handle runs one message through a new graph. The returned error is a graph
// fault; domain and store failures are rendered into st.Response instead.
func (b *Bot) Handle(ctx context.Context, in Inbound) (*State, error) {
	st := &State{Inbound: in}
	err := b.Graph().Run(ctx, st)

	fields := logrus.Fields{
		"from":   in.From,
		"intent": st.Intent,
		"source": st.Source,
		"path":   st.Path,
	}
	if st.Restaurant != nil {
		fields["restaurant_id"] = st.Restaurant.ID
	}
	if st.Session != nil {
		fields["session_id"] = st.Session.ID
	}
	if st.Err != nil {
		fields["error"] = st.Err.Error()
	}
	if err != nil {
		utils.ErrorLogger.WithFields(fields).Errorf("bot graph failed: %v", err)
		if in.From != "" {
			st.Response = Text(t(st.lang(), "generic_error"))
		}
		return st, err
	}
	utils.InfoLogger.WithFields(fields).Info("bot message handled")
	return st, nil
}
