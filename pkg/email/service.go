package email

var GlobalEmailService *EmailService

func InitEmailService(apiKey, from, adminEmail string) error {
	service, err := NewEmailService(apiKey, from, adminEmail)
	if err != nil {
		return err
	}
	GlobalEmailService = service
	return nil
}
