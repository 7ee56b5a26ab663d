package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

const charsetUTF8 = "UTF-8"

// SESAPI часть клиента sesv2, которая нужна отправителю
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender отправляет письма через AWS SES
type SESSender struct {
	client    SESAPI
	fromEmail string
	fromName  string
	log       Logger
}

// NewSESSender создает отправителя SES
func NewSESSender(client SESAPI, fromEmail, fromName string, log Logger) *SESSender {
	if client == nil {
		return nil
	}
	return &SESSender{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		log:       log,
	}
}

// Send отправляет письмо
func (s *SESSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("%w: ses", ErrNotConfigured)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charsetUTF8)},
				Body:    &types.Body{},
			},
		},
	}

	if msg.Body != "" {
		input.Content.Simple.Body.Text = &types.Content{Data: aws.String(msg.Body), Charset: aws.String(charsetUTF8)}
	}
	if msg.HTML != "" {
		input.Content.Simple.Body.Html = &types.Content{Data: aws.String(msg.HTML), Charset: aws.String(charsetUTF8)}
	}

	output, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.log.Error("Send: ses request failed: to=%s, error=%v", msg.To, err)
		return fmt.Errorf("%w: ses: %v", ErrSend, err)
	}

	s.log.Info("Send: email sent via ses: to=%s, message_id=%s", msg.To, aws.ToString(output.MessageId))
	return nil
}

var _ EmailSender = (*SESSender)(nil)
