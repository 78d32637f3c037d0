package service

import (
	"strconv"

	"github.com/amoskalev/notepanel/database"
	"github.com/amoskalev/notepanel/database/model"
	"github.com/amoskalev/notepanel/util/common"
	"github.com/amoskalev/notepanel/util/reflect_util"
	"github.com/amoskalev/notepanel/web/entity"

	"gorm.io/gorm"
)

var defaultValueMap = map[string]string{
	"auditRetentionDays": "90",
	"auditPageSize":      "200",
	"sessionSweepSpec":   "@hourly",
	"auditCleanupSpec":   "@daily",
}

type SettingService struct {
	db *gorm.DB
}

func NewSettingService(db *gorm.DB) *SettingService {
	return &SettingService{db: db}
}

// GetAllSetting merges stored rows over the defaults. Rows without a matching
// field (internal markers) are skipped.
func (s *SettingService) GetAllSetting() (*entity.AllSetting, error) {
	settings := make([]*model.Setting, 0)
	if err := s.db.Model(model.Setting{}).Find(&settings).Error; err != nil {
		return nil, err
	}

	allSetting := &entity.AllSetting{}
	fields, err := reflect_util.TaggedFields(allSetting, "json")
	if err != nil {
		return nil, err
	}
	stored := make(map[string]string, len(settings))
	for _, setting := range settings {
		stored[setting.Key] = setting.Value
	}

	for _, field := range fields {
		value, ok := stored[field.Key]
		if !ok {
			value = defaultValueMap[field.Key]
		}
		if err := field.SetString(value); err != nil {
			return nil, err
		}
	}
	return allSetting, nil
}

// UpdateAllSetting validates and stores every field of allSetting.
func (s *SettingService) UpdateAllSetting(allSetting *entity.AllSetting) error {
	if err := allSetting.CheckValid(); err != nil {
		return withCause(ErrInvalidSetting, err)
	}

	fields, err := reflect_util.TaggedFields(allSetting, "json")
	if err != nil {
		return err
	}
	errs := make([]error, 0)
	for _, field := range fields {
		if err := s.saveSetting(field.Key, field.String()); err != nil {
			errs = append(errs, err)
		}
	}
	return common.Combine(errs...)
}

func (s *SettingService) getSetting(key string) (*model.Setting, error) {
	setting := &model.Setting{}
	err := s.db.Model(model.Setting{}).Where("key = ?", key).First(setting).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *SettingService) saveSetting(key string, value string) error {
	setting, err := s.getSetting(key)
	if database.IsNotFound(err) {
		return s.db.Create(&model.Setting{
			Key:   key,
			Value: value,
		}).Error
	} else if err != nil {
		return err
	}
	setting.Value = value
	return s.db.Save(setting).Error
}

func (s *SettingService) getString(key string) (string, error) {
	setting, err := s.getSetting(key)
	if database.IsNotFound(err) {
		value, ok := defaultValueMap[key]
		if !ok {
			return "", common.NewErrorf("key <%v> not in defaultValueMap", key)
		}
		return value, nil
	} else if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *SettingService) getInt(key string) (int, error) {
	str, err := s.getString(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(str)
}

func (s *SettingService) setInt(key string, value int) error {
	return s.saveSetting(key, strconv.Itoa(value))
}

func (s *SettingService) GetAuditRetentionDays() (int, error) {
	return s.getInt("auditRetentionDays")
}

func (s *SettingService) SetAuditRetentionDays(days int) error {
	return s.setInt("auditRetentionDays", days)
}

func (s *SettingService) GetAuditPageSize() (int, error) {
	return s.getInt("auditPageSize")
}

func (s *SettingService) GetSessionSweepSpec() (string, error) {
	return s.getString("sessionSweepSpec")
}

func (s *SettingService) GetAuditCleanupSpec() (string, error) {
	return s.getString("auditCleanupSpec")
}
