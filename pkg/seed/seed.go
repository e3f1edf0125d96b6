// Package seed fills a database with an administrator and sample regular
// users, chats, messages and responses for local development.
package seed

import (
	"context"
	"fmt"
	"math/rand"

	"PumpPal/models"

	"gorm.io/gorm"
)

const (
	AdminEmail    = "admin@pumppal.com"
	AdminPassword = "adminpumppal"
	adminImageURL = "https://careertraining.hacc.edu/common/images/2/20743/cert-admin-prof-w-office-specialist-and-voucher-935x572.jpg"

	// UserPassword is shared by every generated regular user.
	UserPassword = "password1"
)

type Options struct {
	Users int
	Seed  int64
}

// Summary counts the rows a Run inserted.
type Summary struct {
	Users     int
	Chats     int
	Messages  int
	Responses int
}

var (
	firstNames = []string{"Ana", "Marko", "Jelena", "Nikola", "Ivana", "Luka", "Milica", "Stefan"}
	lastNames  = []string{"Petrović", "Jovanović", "Nikolić", "Marković", "Đorđević", "Ilić"}
	titles     = []string{"Diet Plan", "Tomato blight", "Irrigation schedule", "Soil pH", "Crop rotation", "Greenhouse heating", "Orchard pruning"}
	questions  = []string{
		"How much protein should I eat?",
		"When should I water seedlings?",
		"What is the best cover crop for clay soil?",
		"How do I spot early blight on tomatoes?",
		"How often should I test soil pH?",
		"Which fertiliser suits leafy greens?",
		"How deep should I plant garlic?",
	}
	answers = []string{
		"Aim for about 1.6 g per kg of body weight spread across meals.",
		"Water early in the morning so leaves dry before evening.",
		"Cereal rye and crimson clover both break up heavy clay well.",
		"Look for dark concentric rings on the lower leaves first.",
		"Once a season is enough unless you are correcting a problem.",
		"A nitrogen-rich organic feed works well for leafy crops.",
		"Plant cloves about 5 cm deep with the pointed end up.",
	}
)

// Run inserts the administrator unless it already exists, then opts.Users
// regular users, each with 1-3 chats of 3-6 answered messages.
func Run(ctx context.Context, db *gorm.DB, opts Options) (Summary, error) {
	rng := rand.New(rand.NewSource(opts.Seed))
	var sum Summary

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var admins int64
		if err := tx.Model(&models.User{}).Where("email = ?", AdminEmail).Count(&admins).Error; err != nil {
			return fmt.Errorf("check admin: %w", err)
		}
		if admins == 0 {
			img := adminImageURL
			admin := models.User{Name: "Admin User", Email: AdminEmail, Role: models.RoleAdministrator, ImageURL: &img}
			if err := admin.SetPassword(AdminPassword); err != nil {
				return err
			}
			if err := tx.Create(&admin).Error; err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			sum.Users++
		}

		var existing int64
		if err := tx.Model(&models.User{}).Count(&existing).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}

		for i := 0; i < opts.Users; i++ {
			n := int(existing) + i
			u := models.User{
				Name:  pick(rng, firstNames) + " " + pick(rng, lastNames),
				Email: fmt.Sprintf("user%d@pumppal.test", n),
				Role:  models.RoleRegular,
			}
			if err := u.SetPassword(UserPassword); err != nil {
				return err
			}
			if err := tx.Create(&u).Error; err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			sum.Users++

			chats := 1 + rng.Intn(3)
			for c := 0; c < chats; c++ {
				chat := models.Chat{UserID: u.ID, Title: pick(rng, titles)}
				if err := tx.Create(&chat).Error; err != nil {
					return fmt.Errorf("create chat: %w", err)
				}
				sum.Chats++

				msgs := 3 + rng.Intn(4)
				for m := 0; m < msgs; m++ {
					k := rng.Intn(len(questions))
					msg := models.Message{ChatID: chat.ID, Content: questions[k]}
					if err := tx.Create(&msg).Error; err != nil {
						return fmt.Errorf("create message: %w", err)
					}
					resp, err := msg.Answer(answers[k])
					if err != nil {
						return err
					}
					if err := tx.Create(resp).Error; err != nil {
						return fmt.Errorf("create response: %w", err)
					}
					sum.Messages++
					sum.Responses++
				}
			}
		}
		return nil
	})
	return sum, err
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.Intn(len(from))]
}
