package service

import (
	"regexp"
	"time"

	"gacha-system/config"
	"gacha-system/database"
	"gacha-system/database/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

const (
	minUsernameLen = 3
	maxUsernameLen = 16
	maxNicknameLen = 12
)

// TitleBadge is the display title shown next to a nickname.
type TitleBadge struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type titleRule struct {
	TitleBadge
	check func(*model.User) bool
}

// titleRules are ordered, the last matching rule wins.
var titleRules = []titleRule{
	{TitleBadge{"newbie", "萌新", "#94A3B8"}, func(u *model.User) bool { return u.DrawCount < 10 }},
	{TitleBadge{"veteran", "老司机", "#10B981"}, func(u *model.User) bool { return u.DrawCount >= 50 }},
	{TitleBadge{"whale", "肝帝", "#F59E0B"}, func(u *model.User) bool { return u.DrawCount >= 200 }},
	{TitleBadge{"gambler", "赌神", "#8B5CF6"}, func(u *model.User) bool { return u.Wins >= 50 }},
	{TitleBadge{"rich", "大富豪", "#FCD34D"}, func(u *model.User) bool { return u.Coins >= 5000 }},
	{TitleBadge{"unlucky", "非酋", "#64748B"}, func(u *model.User) bool { return u.Inventory["N"] > 20 && u.Inventory["SSR"] == 0 }},
	{TitleBadge{"lucky", "欧皇", "#EC4899"}, func(u *model.User) bool { return u.Inventory["UR"] >= 1 }},
}

// UserInfo is a user record ready for display: credential stripped by
// the json mapping, current title attached.
type UserInfo struct {
	model.User
	Title *TitleBadge `json:"title"`
}

type UserService struct {
	gameConfig *config.GameConfig
}

func NewUserService(gameConfig *config.GameConfig) *UserService {
	return &UserService{gameConfig: gameConfig}
}

// Get returns nil, nil for an unknown user, missing records are a
// normal condition here.
func (s *UserService) Get(username string) (*model.User, error) {
	if username == "" {
		return nil, nil
	}
	var user model.User
	err := database.GetDB().Where("username = ?", username).First(&user).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Save stamps LastUpdated and writes the whole record. Later writers
// win over concurrent ones.
func (s *UserService) Save(user *model.User) error {
	user.LastUpdated = time.Now().UnixMilli()
	return database.GetDB().Save(user).Error
}

func (s *UserService) Register(username, nickname, password string) (*model.User, error) {
	if username == "" || nickname == "" || password == "" {
		return nil, newGameError(KindInvalidRequest, "missing fields")
	}
	if !usernamePattern.MatchString(username) {
		return nil, newGameError(KindInvalidRequest, "invalid username format")
	}
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return nil, newGameError(KindInvalidRequest, "invalid username length")
	}
	if len([]rune(nickname)) > maxNicknameLen {
		return nil, newGameError(KindInvalidRequest, "nickname too long")
	}

	existing, err := s.Get(username)
	if err != nil {
		return nil, errStorageFailure(err)
	}
	if existing != nil {
		return nil, newGameError(KindNameTaken, "username taken")
	}
	if taken, err := s.nicknameTaken(nickname, ""); err != nil {
		return nil, errStorageFailure(err)
	} else if taken {
		return nil, newGameError(KindNameTaken, "nickname taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errStorageFailure(err)
	}

	user := &model.User{
		Username:  username,
		Nickname:  nickname,
		Password:  string(hash),
		Inventory: model.Inventory{},
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.Save(user); err != nil {
		return nil, errStorageFailure(err)
	}
	return user, nil
}

func (s *UserService) nicknameTaken(nickname, exceptUsername string) (bool, error) {
	var count int64
	err := database.GetDB().Model(&model.User{}).
		Where("nickname = ? AND username != ?", nickname, exceptUsername).
		Count(&count).Error
	return count > 0, err
}

func (s *UserService) Login(username, password string) (*model.User, error) {
	user, err := s.Get(username)
	if err != nil {
		return nil, errStorageFailure(err)
	}
	if user == nil {
		return nil, errUserNotFound(username)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, newGameError(KindInvalidCredentials, "invalid password")
	}
	return user, nil
}

// Info decorates the record with its current display title.
func (s *UserService) Info(username string) (*UserInfo, error) {
	user, err := s.Get(username)
	if err != nil {
		return nil, errStorageFailure(err)
	}
	if user == nil {
		return nil, nil
	}
	info := &UserInfo{User: *user}
	for i := range titleRules {
		if titleRules[i].check(user) {
			badge := titleRules[i].TitleBadge
			info.Title = &badge
		}
	}
	return info, nil
}

func (s *UserService) UpdateProfile(username, nickname, password string) (*model.User, error) {
	user, err := s.Get(username)
	if err != nil {
		return nil, errStorageFailure(err)
	}
	if user == nil {
		return nil, errUserNotFound(username)
	}

	if nickname != "" && nickname != user.Nickname {
		if len([]rune(nickname)) > maxNicknameLen {
			return nil, newGameError(KindInvalidRequest, "nickname too long")
		}
		if taken, err := s.nicknameTaken(nickname, username); err != nil {
			return nil, errStorageFailure(err)
		} else if taken {
			return nil, newGameError(KindNameTaken, "nickname taken")
		}
		user.Nickname = nickname
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errStorageFailure(err)
		}
		user.Password = string(hash)
	}

	if err := s.Save(user); err != nil {
		return nil, errStorageFailure(err)
	}
	return user, nil
}

// AdminUserRow is the trimmed listing shown in the admin panel.
type AdminUserRow struct {
	Username    string `json:"username"`
	Nickname    string `json:"nickname"`
	DrawCount   int64  `json:"drawCount"`
	Coins       int64  `json:"coins"`
	LastUpdated int64  `json:"lastUpdated"`
}

func (s *UserService) AdminUsers() ([]AdminUserRow, error) {
	var users []model.User
	err := database.GetDB().
		Order("draw_count desc").
		Limit(50).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	rows := make([]AdminUserRow, 0, len(users))
	for _, user := range users {
		rows = append(rows, AdminUserRow{
			Username:    user.Username,
			Nickname:    user.Nickname,
			DrawCount:   user.DrawCount,
			Coins:       user.Coins,
			LastUpdated: user.LastUpdated,
		})
	}
	return rows, nil
}

// AdminDeleteUser removes the record and its prefetch slot.
func (s *UserService) AdminDeleteUser(username string) error {
	user, err := s.Get(username)
	if err != nil {
		return errStorageFailure(err)
	}
	if user == nil {
		return errUserNotFound(username)
	}
	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.User{}, "username = ?", username).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PrefetchEntry{}, "username = ?", username).Error
	})
}

// AdminAdjustCoins adds amount (may be negative) to the balance,
// clamped at zero, and returns the new balance.
func (s *UserService) AdminAdjustCoins(username string, amount int64) (int64, error) {
	user, err := s.Get(username)
	if err != nil {
		return 0, errStorageFailure(err)
	}
	if user == nil {
		return 0, errUserNotFound(username)
	}
	user.Coins += amount
	if user.Coins < 0 {
		user.Coins = 0
	}
	if err := s.Save(user); err != nil {
		return 0, errStorageFailure(err)
	}
	return user.Coins, nil
}

// UserCount feeds the status endpoint.
func (s *UserService) UserCount() (int64, error) {
	var count int64
	err := database.GetDB().Model(&model.User{}).Count(&count).Error
	return count, err
}
