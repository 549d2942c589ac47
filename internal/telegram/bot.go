// Package telegram serves the meal planner over a Telegram bot.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"weekly-menu/internal/app"
	"weekly-menu/internal/planner"
	"weekly-menu/internal/shopping"
	"weekly-menu/internal/user"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	buyAction      = "buy"
	buttonsPerRow  = 4
	requestTimeout = 2 * time.Minute
)

// Sender is the part of the Telegram API the bot talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot answers commands from the allowed Telegram users.
type Bot struct {
	api     Sender
	poller  *tgbotapi.BotAPI
	app     *app.App
	allowed map[int64]bool
	logger  *zap.Logger
	now     func() time.Time
}

// NewBot connects to Telegram with the configured token and, when a
// webhook URL is configured, registers it.
func NewBot(a *app.App) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(a.Config.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	a.Logger.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	if url := a.Config.TelegramWebhookURL; url != "" {
		wh, err := tgbotapi.NewWebhook(url)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook url %s: %w", url, err)
		}
		if _, err := api.Request(wh); err != nil {
			return nil, fmt.Errorf("failed to set webhook to %s: %w", url, err)
		}
		a.Logger.Info("telegram webhook set", zap.String("url", url))
	}

	b := newBot(api, a)
	b.poller = api
	return b, nil
}

func newBot(api Sender, a *app.App) *Bot {
	allowed := make(map[int64]bool, len(a.Config.TelegramAllowedUserIDs))
	for _, id := range a.Config.TelegramAllowedUserIDs {
		allowed[id] = true
	}
	return &Bot{api: api, app: a, allowed: allowed, logger: a.Logger, now: time.Now}
}

// HandleWebhook decodes an update pushed by Telegram and processes it in
// the background.
func (b *Bot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.logger.Warn("failed to parse telegram update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		b.HandleUpdate(ctx, update)
	}()
}

// Poll processes updates with long polling until ctx is done. It is the
// alternative to the webhook for local runs.
func (b *Bot) Poll(ctx context.Context) {
	if b.poller == nil {
		return
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.poller.GetUpdatesChan(u)
	defer b.poller.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
			b.HandleUpdate(reqCtx, update)
			cancel()
		}
	}
}

// HandleUpdate dispatches one update from an allowed user.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if b.authorize(update.CallbackQuery.From) {
			b.handleCallbackQuery(ctx, update.CallbackQuery)
		}
	case update.Message != nil:
		if b.authorize(update.Message.From) {
			b.processMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) authorize(from *tgbotapi.User) bool {
	if from == nil {
		return false
	}
	if !b.allowed[from.ID] {
		b.logger.Warn("unauthorized telegram user",
			zap.Int64("telegram_id", from.ID),
			zap.String("username", from.UserName),
		)
		return false
	}
	return true
}

// owner maps a Telegram account to its stored profile.
func (b *Bot) owner(ctx context.Context, from *tgbotapi.User) (*user.User, error) {
	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	return b.app.Auth.Resolve(ctx, "tg:"+strconv.FormatInt(from.ID, 10), "", name)
}

func (b *Bot) week() string {
	return planner.FormatDate(planner.WeekStart(b.now()))
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		b.handleImport(ctx, msg, text)
		return
	}

	u, err := b.owner(ctx, msg.From)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	switch msg.Command() {
	case "plan":
		b.handlePlan(ctx, msg.Chat.ID, u, false)
	case "generar":
		b.handlePlan(ctx, msg.Chat.ID, u, true)
	case "lista":
		b.handleList(ctx, msg.Chat.ID, u, true)
	case "compras":
		b.handleList(ctx, msg.Chat.ID, u, false)
	case "precios":
		b.handlePrices(ctx, msg.Chat.ID, u)
	case "metricas":
		b.handleMetrics(ctx, msg.Chat.ID)
	default:
		b.reply(msg.Chat.ID, helpText)
	}
}

const helpText = `Comandos disponibles:
/plan - ver el menú de esta semana
/generar - generar un menú nuevo para esta semana
/lista - generar la lista de la compra
/compras - ver la lista de la compra actual
/precios - comparar precios entre supermercados
/metricas - uso del modelo y estado del sistema
Envía un enlace a una receta para importarla.`

func (b *Bot) handlePlan(ctx context.Context, chatID int64, u *user.User, generate bool) {
	var (
		plan *planner.MealPlan
		err  error
	)
	if generate {
		plan, err = b.app.GenerateWeekPlan(ctx, u, b.week())
	} else {
		plan, err = b.app.Plans.Get(ctx, u, b.week())
	}
	if err != nil && !errors.Is(err, planner.ErrNotSynced) {
		b.replyError(chatID, err)
		return
	}
	if !plan.HasMeals() {
		b.reply(chatID, "No tienes menú para esta semana. Usa /generar para crear uno.")
		return
	}

	titles, lookupErr := b.recipeTitles(ctx, plan)
	if lookupErr != nil {
		b.logger.Warn("failed to load plan recipes", zap.Error(lookupErr))
	}
	text := formatPlan(plan, titles)
	if err != nil {
		text += "\n⚠️ Guardado solo en caché, se sincronizará más tarde."
	}
	b.reply(chatID, text)
}

func (b *Bot) recipeTitles(ctx context.Context, plan *planner.MealPlan) (map[string]string, error) {
	byID, err := b.app.Recipes.GetByIDs(ctx, plan.RecipeIDs())
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(byID))
	for id, r := range byID {
		titles[id] = r.Title
	}
	return titles, nil
}

var mealLabels = map[planner.MealType]string{
	planner.Breakfast: "Desayuno",
	planner.Lunch:     "Comida",
	planner.Dinner:    "Cena",
}

func formatPlan(plan *planner.MealPlan, titles map[string]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Menú de la semana del %s\n", plan.WeekStart)

	day := ""
	for _, m := range plan.Meals {
		if m.Date != day {
			day = m.Date
			fmt.Fprintf(&sb, "\n%s\n", day)
		}
		title := titles[m.RecipeID]
		if title == "" {
			title = m.RecipeID
		}
		fmt.Fprintf(&sb, "• %s: %s (%d rac.)\n", mealLabels[m.MealType], title, m.EffectiveServings())
	}
	return sb.String()
}

func (b *Bot) handleList(ctx context.Context, chatID int64, u *user.User, generate bool) {
	var (
		list *shopping.ShoppingList
		err  error
	)
	if generate {
		list, err = b.app.GenerateShoppingList(ctx, u, b.week())
	} else {
		list, err = b.app.Shopping.Current(ctx, u.ID, b.week())
	}

	switch {
	case errors.Is(err, shopping.ErrNoMealPlan):
		b.reply(chatID, "Primero necesitas un menú para esta semana. Usa /generar.")
		return
	case errors.Is(err, shopping.ErrListNotFound):
		b.reply(chatID, "Aún no tienes lista de la compra. Usa /lista para generarla.")
		return
	case err != nil && !errors.Is(err, shopping.ErrNotPersisted):
		b.replyError(chatID, err)
		return
	}

	msg := tgbotapi.NewMessage(chatID, listText(list, err))
	if kb, ok := listKeyboard(list); ok {
		msg.ReplyMarkup = kb
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to send shopping list", zap.Error(err))
	}
}

func listText(list *shopping.ShoppingList, err error) string {
	text := "🛒 " + shopping.Render(list)
	if errors.Is(err, shopping.ErrNotPersisted) {
		text += "\n⚠️ La lista no se ha podido guardar, se mantiene en memoria."
	}
	return text
}

// listKeyboard has one "✅ n" button per item index. Purchased items show ↩️
// and toggle back.
func listKeyboard(list *shopping.ShoppingList) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(list.Items) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, it := range list.Items {
		label := fmt.Sprintf("✅ %d", i)
		if it.IsPurchased {
			label = fmt.Sprintf("↩️ %d", i)
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s|%d", buyAction, i)))
		if len(row) == buttonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	action, arg, _ := strings.Cut(query.Data, "|")
	index, err := strconv.Atoi(arg)
	if action != buyAction || err != nil || query.Message == nil {
		b.answer(query.ID, "Acción desconocida")
		return
	}

	u, err := b.owner(ctx, query.From)
	if err != nil {
		b.answer(query.ID, "Error")
		b.logger.Error("failed to resolve telegram user", zap.Error(err))
		return
	}

	list, err := b.app.Shopping.Current(ctx, u.ID, b.week())
	switch {
	case errors.Is(err, shopping.ErrListNotFound):
		b.answer(query.ID, "No hay lista para esta semana")
		return
	case err != nil && !errors.Is(err, shopping.ErrNotPersisted):
		b.answer(query.ID, "Error")
		b.logger.Error("failed to load shopping list", zap.String("owner_id", u.ID), zap.Error(err))
		return
	}
	if index < 0 || index >= len(list.Items) {
		b.answer(query.ID, "Ese artículo ya no está en la lista")
		return
	}

	purchased := !list.Items[index].IsPurchased
	list, err = b.app.Shopping.UpdateItem(ctx, u.ID, b.week(), index, shopping.ItemPatch{IsPurchased: &purchased})
	if err != nil && !errors.Is(err, shopping.ErrNotPersisted) {
		b.answer(query.ID, "No se pudo actualizar")
		b.logger.Error("failed to toggle shopping item", zap.Int("index", index), zap.Error(err))
		return
	}

	if purchased {
		b.answer(query.ID, "Comprado: "+list.Items[index].IngredientName)
	} else {
		b.answer(query.ID, "Pendiente: "+list.Items[index].IngredientName)
	}

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, listText(list, err))
	if kb, ok := listKeyboard(list); ok {
		edit.ReplyMarkup = &kb
	}
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Warn("failed to refresh shopping list message", zap.Error(err))
	}
}

func (b *Bot) handlePrices(ctx context.Context, chatID int64, u *user.User) {
	cmp, err := b.app.ComparePrices(ctx, u, b.week())
	if errors.Is(err, shopping.ErrListNotFound) {
		b.reply(chatID, "Aún no tienes lista de la compra. Usa /lista para generarla.")
		return
	}
	if err != nil {
		b.replyError(chatID, err)
		return
	}

	var sb strings.Builder
	sb.WriteString("💶 Comparativa de precios\n\n")
	for _, q := range cmp.Supermarkets {
		fmt.Fprintf(&sb, "• %s: %.2f €", q.Name, q.TotalCost)
		if q.Savings > 0 {
			fmt.Fprintf(&sb, " (ahorras %.2f €)", q.Savings)
		}
		sb.WriteString("\n")
	}
	if best, ok := cmp.Cheapest(); ok {
		fmt.Fprintf(&sb, "\nMás barato: %s\n", best.Name)
	}
	for _, r := range cmp.Recommendations {
		fmt.Fprintf(&sb, "– %s: %s. %s\n", r.Category, r.BestStore, r.Reason)
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleImport(ctx context.Context, msg *tgbotapi.Message, url string) {
	sent, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "✂️ Importando receta..."))
	if err != nil {
		b.logger.Warn("failed to send initial reply", zap.Error(err))
		return
	}

	var text string
	rec, err := b.app.ImportRecipe(ctx, url)
	if err != nil {
		b.logger.Error("recipe import failed", zap.String("url", url), zap.Error(err))
		text = "❌ No se pudo importar la receta: " + err.Error()
	} else {
		text = fmt.Sprintf("✅ Receta guardada: %s (%d ingredientes)", rec.Title, len(rec.Ingredients))
	}
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(msg.Chat.ID, sent.MessageID, text)); err != nil {
		b.logger.Warn("failed to edit reply", zap.Error(err))
	}
}

func (b *Bot) handleMetrics(ctx context.Context, chatID int64) {
	usage, err := b.app.Metrics.GetDailyUsage(ctx, 7)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	health := b.app.SysHealth()

	var sb strings.Builder
	sb.WriteString("📊 Uso y estado\n\n🗓 Actividad reciente del modelo\n")
	if len(usage) == 0 {
		sb.WriteString("Sin datos todavía\n")
	}
	for _, d := range usage {
		fmt.Fprintf(&sb, "• %s: %d tokens (%d llamadas)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution)
	}
	sb.WriteString("\n🧠 Sistema\n")
	fmt.Fprintf(&sb, "• RAM: %dMB (alloc) / %dMB (sys)\n", health.AllocMB, health.SysMB)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Datos en disco: %s\n", health.DataDiskSize)
	b.reply(chatID, sb.String())
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn("failed to send telegram message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) replyError(chatID int64, err error) {
	b.logger.Error("telegram command failed", zap.Int64("chat_id", chatID), zap.Error(err))
	b.reply(chatID, "❌ Algo ha fallado, inténtalo de nuevo más tarde.")
}

func (b *Bot) answer(queryID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(queryID, text)); err != nil {
		b.logger.Warn("failed to answer callback", zap.Error(err))
	}
}
