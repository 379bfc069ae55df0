package domain

// Department представляет отдел компании
type Department struct {
	ID    int64   `json:"id" gorm:"column:Id;primaryKey;autoIncrement"`
	Name  string  `json:"name" gorm:"column:Name;type:varchar(255);not null"`
	Phone *string `json:"phone" gorm:"column:Phone;type:varchar(50)"`
}

// TableName задаёт имя таблицы для GORM
func (Department) TableName() string {
	return "Departments"
}

// Employee представляет сотрудника. Является корнем агрегата:
// отдел и паспорт изменяются только через операции над сотрудником.
type Employee struct {
	ID           int64   `json:"id" gorm:"column:Id;primaryKey;autoIncrement"`
	Name         string  `json:"name" gorm:"column:Name;type:varchar(255);not null"`
	Surname      string  `json:"surname" gorm:"column:Surname;type:varchar(255);not null"`
	Phone        *string `json:"phone" gorm:"column:Phone;type:varchar(50)"`
	CompanyID    int64   `json:"companyId" gorm:"column:CompanyId;not null;index"`
	DepartmentID int64   `json:"departmentId" gorm:"column:DepartmentId;not null;index"`

	Department *Department `json:"-" gorm:"-"`
	Passport   *Passport   `json:"-" gorm:"-"`
}

// TableName задаёт имя таблицы для GORM
func (Employee) TableName() string {
	return "Employees"
}

// Passport представляет паспорт сотрудника.
// Первичный ключ совпадает с идентификатором сотрудника.
type Passport struct {
	ID     int64  `json:"id" gorm:"column:Id;primaryKey;autoIncrement:false"`
	Type   string `json:"type" gorm:"column:Type;type:varchar(50);not null"`
	Number string `json:"number" gorm:"column:Number;type:varchar(100);not null"`

	Employee *Employee `json:"-" gorm:"-"`
}

// TableName задаёт имя таблицы для GORM
func (Passport) TableName() string {
	return "Passports"
}
