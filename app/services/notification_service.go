// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

// NotificationService handles sending notifications via SMS and email
type NotificationService interface {
	SendSMS(ctx context.Context, phone, message string) error
	SendEmail(ctx context.Context, email, subject, message string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	smsService    SMSService
	emailProvider EmailProvider
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(email, subject, message string) error
}

// NewNotificationService creates a new notification service
func NewNotificationService(smsService SMSService, emailProvider EmailProvider) NotificationService {
	return &NotificationServiceImpl{
		smsService:    smsService,
		emailProvider: emailProvider,
	}
}

// SendSMS sends an SMS message to the specified phone number
func (s *NotificationServiceImpl) SendSMS(ctx context.Context, phone, message string) error {
	if s.smsService == nil {
		return fmt.Errorf("SMS provider not configured")
	}

	// Validate phone format
	if len(phone) != 13 || phone[:4] != "+989" {
		return fmt.Errorf("invalid phone number format: %s", phone)
	}

	return s.smsService.SendSMS(ctx, phone, message, nil)
}

// SendEmail sends an email to the specified email address
func (s *NotificationServiceImpl) SendEmail(ctx context.Context, email, subject, message string) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}

	// Basic email validation
	if len(email) == 0 || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}

	return s.emailProvider.SendEmail(email, subject, message)
}

// MockEmail captures a single delivery made through MockEmailProvider
type MockEmail struct {
	Recipient string
	Subject   string
	Message   string
}

type MockEmailProvider struct {
	mu         sync.Mutex
	SentEmails []MockEmail
}

func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{}
}

func (p *MockEmailProvider) SendEmail(email, subject, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.SentEmails = append(p.SentEmails, MockEmail{Recipient: email, Subject: subject, Message: message})
	log.Printf("Email sent to %s [%s]: %s", email, subject, message)
	return nil
}

type SMTPEmailProvider struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
}

func NewSMTPEmailProvider(host string, port int, username, password, fromEmail string) EmailProvider {
	return &SMTPEmailProvider{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromEmail: fromEmail,
	}
}

func (p *SMTPEmailProvider) SendEmail(email, subject, message string) error {
	// Implementation would use net/smtp package or a library like gomail

	log.Printf("Sending email via SMTP to %s [%s]: %s", email, subject, message)

	return nil
}
