package models

// 行政区划参考数据，下单前外部导入，运行期只读

// Province 省份表
type Province struct {
	ID   uint   `gorm:"primarykey" json:"id"` // 主键
	Name string `gorm:"not null" json:"name"` // 省份名称
	Code string `gorm:"uniqueIndex;not null" json:"code"`
}

// TableName 指定表名
func (Province) TableName() string {
	return "provinces"
}

// District 区县表
type District struct {
	ID         uint   `gorm:"primarykey" json:"id"`             // 主键
	ProvinceID uint   `gorm:"index;not null" json:"province_id"` // 省份ID
	Name       string `gorm:"not null" json:"name"`             // 区县名称
	GHNID      int    `gorm:"column:ghn_id;index" json:"ghn_id"` // 承运商区县编码

	Province *Province `gorm:"foreignKey:ProvinceID" json:"province,omitempty"` // 关联省份
}

// TableName 指定表名
func (District) TableName() string {
	return "districts"
}

// Ward 街道表
type Ward struct {
	ID         uint   `gorm:"primarykey" json:"id"`                  // 主键
	DistrictID uint   `gorm:"index;not null" json:"district_id"`     // 区县ID
	Name       string `gorm:"not null" json:"name"`                  // 街道名称
	GHNCode    string `gorm:"column:ghn_code;index" json:"ghn_code"` // 承运商街道编码

	District *District `gorm:"foreignKey:DistrictID" json:"district,omitempty"` // 关联区县
}

// TableName 指定表名
func (Ward) TableName() string {
	return "wards"
}
