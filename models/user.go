package models

import (
	"errors"
	"fmt"

	"docserver/db"

	"gorm.io/gorm"
)

type User struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	Name      string `gorm:"type:varchar(100)" json:"name"`
	Email     string `gorm:"type:varchar(150);index:uniq_email,unique" json:"email"`
	IsActive  bool   `gorm:"not null;default:true" json:"is_active"`
	IsManager bool   `gorm:"not null;default:false" json:"is_manager"`

	Permissions []FilePermission `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func UserCreate(name, email string, isManager bool) (User, error) {
	u := User{
		Name:      name,
		Email:     email,
		IsActive:  true,
		IsManager: isManager,
	}
	if err := db.Instance.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return User{}, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return User{}, err
	}
	return u, nil
}

func UserGet(userID uint64) (User, error) {
	u := User{}
	if err := db.Instance.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return User{}, err
	}
	return u, nil
}

func UserList() ([]User, error) {
	users := []User{}
	err := db.Instance.Order("created_at desc").Find(&users).Error
	return users, err
}

// requireManager resolves the acting user and enforces the manager gate used
// by every mutating operation. The identity is caller-asserted: there is no
// token or session to verify, only the user row's is_manager flag.
func requireManager(actingUserID uint64) (User, error) {
	user, err := UserGet(actingUserID)
	if err != nil {
		return User{}, err
	}
	if !user.IsManager {
		return User{}, fmt.Errorf("%w: user %d is not a manager", ErrNotAuthorized, actingUserID)
	}
	return user, nil
}

// RequireManager exposes the manager gate for operations handled outside the
// core model funcs (e.g. bucket administration).
func RequireManager(actingUserID uint64) (User, error) {
	return requireManager(actingUserID)
}

// UserSetManager flips the manager role and cascades the change to every
// FilePermission row the user holds: promotion turns all five capability
// flags on, demotion turns them all off. The cascade is global across
// workspaces and runs in the same transaction as the role update.
func UserSetManager(userID uint64, isManager bool) (User, error) {
	user, err := UserGet(userID)
	if err != nil {
		return User{}, err
	}
	if user.IsManager == isManager {
		return user, nil
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&User{}).Where("id = ?", userID).
			Update("is_manager", isManager).Error; err != nil {
			return err
		}
		return tx.Model(&FilePermission{}).Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"can_view":     isManager,
				"can_edit":     isManager,
				"can_delete":   isManager,
				"can_share":    isManager,
				"can_download": isManager,
			}).Error
	})
	if err != nil {
		return User{}, err
	}
	user.IsManager = isManager
	action := "user.demote"
	if isManager {
		action = "user.promote"
	}
	audit(action, "user", userID, nil, nil, "")
	return user, nil
}
