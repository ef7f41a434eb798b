// Package notifier превращает события о встречах в письма.
package notifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/room-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/room-booking/internal/lib/smtp"
	"github.com/magabrotheeeer/room-booking/internal/models"
)

const timeLayout = "02.01.2006 15:04 MST"

// NotifierService рассылает уведомления о создании, переносе и отмене встреч.
type NotifierService struct {
	transport smtp.TransportInterface
	mailTo    []string
	log       *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
// Nil transport или пустой mailTo означают, что письма только логируются.
func NewNotifierService(transport smtp.TransportInterface, mailTo []string, log *slog.Logger) *NotifierService {
	return &NotifierService{
		transport: transport,
		mailTo:    mailTo,
		log:       log,
	}
}

// HandleMeetingEvent разбирает тело сообщения и отправляет письмо.
// Неразборчивое сообщение и неизвестный тип отклоняются через rabbitmq.ErrDrop.
func (s *NotifierService) HandleMeetingEvent(body []byte) error {
	const op = "notifier.HandleMeetingEvent"

	var event models.MeetingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%s: %w: %w", op, rabbitmq.ErrDrop, err)
	}

	subject, text, err := compose(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.transport == nil || len(s.mailTo) == 0 {
		s.log.Info("meeting notification",
			slog.String("type", event.Type),
			slog.Int64("meeting_id", event.Meeting.ID),
			slog.String("subject", subject),
		)
		return nil
	}
	if err = s.sendEmail(s.mailTo, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func compose(event models.MeetingEvent) (string, string, error) {
	m := event.Meeting
	when := fmt.Sprintf("%s - %s", m.StartAt.UTC().Format(timeLayout), m.EndAt.UTC().Format(timeLayout))

	switch event.Type {
	case rabbitmq.EventMeetingCreated:
		return "Новая встреча: " + m.Title,
			fmt.Sprintf("Встреча «%s» забронирована в комнате #%d.\nВремя: %s.\nОрганизатор: #%d.", m.Title, m.RoomID, when, m.OrganizerID),
			nil
	case rabbitmq.EventMeetingUpdated:
		return "Встреча перенесена: " + m.Title,
			fmt.Sprintf("Встреча «%s» изменена пользователем #%d.\nКомната #%d, время: %s.", m.Title, event.ActorID, m.RoomID, when),
			nil
	case rabbitmq.EventMeetingCancelled:
		return "Встреча отменена: " + m.Title,
			fmt.Sprintf("Встреча «%s» в комнате #%d (%s) отменена пользователем #%d.", m.Title, m.RoomID, when, event.ActorID),
			nil
	default:
		return "", "", fmt.Errorf("%w: unknown event type %q", rabbitmq.ErrDrop, event.Type)
	}
}

func (s *NotifierService) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"Date: " + time.Now().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("mail from %s: %w", from, err)
	}
	for _, addr := range to {
		if err = client.Rcpt(addr); err != nil {
			return fmt.Errorf("rcpt to %s: %w", addr, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}
	if err = client.Quit(); err != nil {
		return fmt.Errorf("quit: %w", err)
	}

	s.log.Info("email sent successfully", slog.Any("to", to), slog.String("subject", subject))
	return nil
}
