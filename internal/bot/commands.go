package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	studentHelp = `Доступные команды:
/link <username> - Привязать аккаунт с сайта
/signups - Мои записи на защиты
/slots - Доступные слоты для записи
/help - Показать это сообщение`

	adminHelp = `Доступные команды:
/link <username> - Привязать аккаунт с сайта
/signups - Мои записи на защиты
/slots - Доступные слоты для записи
/courses - Список курсов
/links - Список привязанных аккаунтов
/help - Показать это сообщение

Примеры:
/link ivanov.ii
/courses`
)

type commandHandler func(*tgbotapi.Message) error

func (b *Bot) routeStudentCommands(cmd string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"start":   b.handleStart,
		"help":    b.handleHelp,
		"link":    b.handleLink,
		"signups": b.handleSignups,
		"slots":   b.handleSlots,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) routeAdminCommands(cmd string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"courses": b.handleCourses,
		"links":   b.handleLinks,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.sendHelp(msg.Chat.ID)
		return
	}

	cmd := msg.Command()

	if handler, ok := b.routeStudentCommands(cmd); ok {
		if err := handler(msg); err != nil {
			logger.Error.Printf("Command error: %v", err)
			b.sendMessage(msg.Chat.ID, fmt.Sprintf("Error: %v", err))
		}
		return
	}

	if b.admins[msg.From.ID] {
		if handler, ok := b.routeAdminCommands(cmd); ok {
			if err := handler(msg); err != nil {
				logger.Error.Printf("Command error: %v", err)
				b.sendMessage(msg.Chat.ID, fmt.Sprintf("Error: %v", err))
			}
		}
		return
	}

	b.sendHelp(msg.Chat.ID)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	var text string
	if b.admins[msg.From.ID] {
		text = adminHelp
	} else {
		text = studentHelp
	}

	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) sendHelp(chatID int64) error {
	return b.sendMessage(chatID, "Используйте команды для взаимодействия с ботом. Отправьте /help для списка команд.")
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	text := "Привет! Я помогу тебе записаться на защиту.\n\n"
	if b.admins[msg.From.ID] {
		text += "Ты администратор курса. Используй /help для списка команд."
	} else {
		text += "Используй /link <username> чтобы привязать аккаунт с сайта."
	}

	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) handleLink(msg *tgbotapi.Message) error {
	username := strings.TrimSpace(msg.CommandArguments())
	if username == "" {
		return b.sendMessage(msg.Chat.ID, "Использование: /link <username>")
	}

	if err := b.links.SaveLink(context.Background(), msg.From.UserName, username); err != nil {
		return fmt.Errorf("ошибка сохранения привязки: %w", err)
	}

	return b.sendMessage(msg.Chat.ID, fmt.Sprintf("✅ Аккаунт %s привязан", username))
}

func (b *Bot) handleSignups(msg *tgbotapi.Message) error {
	username, err := b.links.FetchUsername(context.Background(), msg.From.UserName)
	if err != nil {
		return b.sendMessage(msg.Chat.ID, "Сначала привяжи аккаунт: /link <username>")
	}

	signups, err := b.schedule.MySignups(username)
	if err != nil {
		return fmt.Errorf("ошибка получения записей: %w", err)
	}

	if len(signups) == 0 {
		return b.sendMessage(msg.Chat.ID, "Записей на защиты не найдено")
	}

	var text strings.Builder
	text.WriteString("Твои записи:\n\n")
	for _, s := range signups {
		title := "?"
		if s.Sheet != nil {
			title = s.Sheet.AssignmentName
		}
		if s.Course != nil {
			title = fmt.Sprintf("%s / %s", s.Course.Code, title)
		}
		text.WriteString(fmt.Sprintf("📝 %s\n📅 %s UTC\n",
			title,
			s.Slot.StartTime.UTC().Format("2006-Jan-02 Mon 15:04"),
		))
		if s.Grade != nil {
			text.WriteString(fmt.Sprintf("🏁 Оценка: %d\n", s.Grade.FinalMark))
		}
		text.WriteString("\n")
	}

	return b.sendMessage(msg.Chat.ID, text.String())
}

func (b *Bot) handleSlots(msg *tgbotapi.Message) error {
	username, err := b.links.FetchUsername(context.Background(), msg.From.UserName)
	if err != nil {
		return b.sendMessage(msg.Chat.ID, "Сначала привяжи аккаунт: /link <username>")
	}

	available, err := b.schedule.AvailableSlots(username)
	if err != nil {
		return fmt.Errorf("ошибка получения слотов: %w", err)
	}

	if len(available) == 0 {
		return b.sendMessage(msg.Chat.ID, "Доступных слотов нет")
	}

	var text strings.Builder
	text.WriteString("Доступные слоты:\n\n")
	for _, a := range available {
		title := "?"
		if a.Sheet != nil {
			title = a.Sheet.AssignmentName
		}
		if a.Course != nil {
			title = fmt.Sprintf("%s / %s", a.Course.Code, title)
		}
		text.WriteString(fmt.Sprintf("👉🏻 %s\n📅 %s UTC (мест: %d)\n\n",
			title,
			a.Slot.StartTime.UTC().Format("2006-Jan-02 Mon 15:04"),
			a.AvailableSpots,
		))
	}

	return b.sendMessage(msg.Chat.ID, text.String())
}

func (b *Bot) handleCourses(msg *tgbotapi.Message) error {
	courses, err := b.registry.ListCourses()
	if err != nil {
		return fmt.Errorf("ошибка получения списка курсов: %w", err)
	}

	if len(courses) == 0 {
		return b.sendMessage(msg.Chat.ID, "Курсы не найдены")
	}

	var text strings.Builder
	text.WriteString("Курсы:\n\n")
	for _, c := range courses {
		text.WriteString(fmt.Sprintf("📚 [%d] %s %s-%s: %s\n", c.ID, c.Term, c.Code, c.Section, c.Name))
	}

	return b.sendMessage(msg.Chat.ID, text.String())
}

func (b *Bot) handleLinks(msg *tgbotapi.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	links, err := b.links.FetchAllLinks(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения привязок: %w", err)
	}

	if len(links) == 0 {
		return b.sendMessage(msg.Chat.ID, "Привязанных аккаунтов нет")
	}

	var text strings.Builder
	text.WriteString("Привязки:\n\n")
	for tg, username := range links {
		text.WriteString(fmt.Sprintf("@%s → %s\n", tg, username))
	}

	return b.sendMessage(msg.Chat.ID, text.String())
}

func (b *Bot) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}
