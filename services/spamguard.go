package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"property-reviews-server/config"
	"property-reviews-server/models"

	"gorm.io/gorm"
)

var (
	// ErrRateLimited means the author exceeded the sliding-window budget.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrDuplicateContent means the content matches a recent submission by
	// the same author on another property.
	ErrDuplicateContent = errors.New("near-duplicate content")
	// ErrAlreadyReviewed means the author already has a review on this
	// property.
	ErrAlreadyReviewed = errors.New("property already reviewed by author")
	// ErrPersonalAttack means the content trips the attack heuristics.
	ErrPersonalAttack = errors.New("content reads as a personal attack")
)

// CheckReviewAllowed runs the spam guard for a prospective review. It must
// run inside the same transaction that inserts the row so the window count
// and the insert are not racy against each other. The same-property
// duplicate check runs first so a repeat submission is reported as a
// duplicate even when the author is also rate limited; the unique pair
// index still backstops the race.
func CheckReviewAllowed(tx *gorm.DB, userID uint, propertyID uint, content string) error {
	policy := config.AppConfig.Spam

	var existing int64
	err := tx.Model(&models.Review{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&existing).Error
	if err != nil {
		return err
	}
	if existing > 0 {
		return ErrAlreadyReviewed
	}

	cutoff := time.Now().Add(-policy.RateWindow)
	var recent int64
	err = tx.Model(&models.Review{}).
		Where("user_id = ? AND created_at > ?", userID, cutoff).
		Count(&recent).Error
	if err != nil {
		return err
	}
	if recent >= int64(policy.MaxReviewsPerWindow) {
		return ErrRateLimited
	}

	return checkNearDuplicate(tx, userID, propertyID, content, policy)
}

// CheckReplyAllowed enforces the reply rate limit. Replies carry no
// duplicate check; short agreement replies legitimately repeat.
func CheckReplyAllowed(tx *gorm.DB, userID uint) error {
	policy := config.AppConfig.Spam

	cutoff := time.Now().Add(-policy.RateWindow)
	var recent int64
	err := tx.Model(&models.Reply{}).
		Where("user_id = ? AND created_at > ?", userID, cutoff).
		Count(&recent).Error
	if err != nil {
		return err
	}
	if recent >= int64(policy.MaxRepliesPerWindow) {
		return ErrRateLimited
	}
	return nil
}

// checkNearDuplicate flags content whose leading prefix matches another
// review by the same author on a different property inside the trailing
// window. Same-property duplicates are already blocked by the unique pair
// index, so only cross-property copy-paste is checked here.
func checkNearDuplicate(tx *gorm.DB, userID uint, propertyID uint, content string, policy config.SpamPolicy) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	// Slice on rune boundaries; a byte cut can split a multibyte character
	// and feed invalid UTF-8 into the query.
	prefix := content
	if runes := []rune(prefix); len(runes) > policy.DuplicatePrefixLen {
		prefix = string(runes[:policy.DuplicatePrefixLen])
	}

	cutoff := time.Now().Add(-policy.NearDuplicateWindow)
	var matches int64
	err := tx.Model(&models.Review{}).
		Where("user_id = ? AND property_id <> ? AND created_at > ?", userID, propertyID, cutoff).
		Where("LOWER(content) LIKE ?", "%"+strings.ToLower(prefix)+"%").
		Count(&matches).Error
	if err != nil {
		return err
	}
	if matches > 0 {
		return ErrDuplicateContent
	}
	return nil
}

// LooksLikePersonalAttack is a blunt heuristic: it trips on known abusive
// phrases, and on short content saturated with second-person pronouns.
// It informs flagging, never automatic rejection.
func LooksLikePersonalAttack(content string) bool {
	policy := config.AppConfig.Spam
	lowered := strings.ToLower(content)

	for _, keyword := range policy.AttackKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}

	if utf8.RuneCountInString(content) < policy.ShortContentLen {
		count := 0
		for _, word := range strings.Fields(lowered) {
			word = strings.Trim(word, ".,!?;:\"'")
			for _, pronoun := range policy.PersonalPronoun {
				if word == pronoun {
					count++
					break
				}
			}
		}
		if count > policy.MaxPronounCount {
			return true
		}
	}
	return false
}

// AutoTitle derives a title from the leading content when the author left
// the title blank. Truncation is rune based so multibyte content survives.
func AutoTitle(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	runes := []rune(content)
	if len(runes) <= 50 {
		return content
	}
	return string(runes[:50]) + "..."
}
