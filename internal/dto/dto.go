package dto

// CreateEmployeeRequest - запрос на создание сотрудника
type CreateEmployeeRequest struct {
	Name       string                   `json:"name" validate:"required,min=1,max=255"`
	Surname    string                   `json:"surname" validate:"required,min=1,max=255"`
	Phone      *string                  `json:"phone" validate:"omitempty,max=50"`
	CompanyID  *int64                   `json:"companyId" validate:"required,min=0"`
	Passport   *CreatePassportRequest   `json:"passport" validate:"required"`
	Department *CreateDepartmentRequest `json:"department" validate:"required"`
}

// CreatePassportRequest - паспорт в запросе на создание
type CreatePassportRequest struct {
	Type   string `json:"type" validate:"required,min=1,max=50"`
	Number string `json:"number" validate:"required,min=1,max=100"`
}

// CreateDepartmentRequest - отдел в запросе на создание
type CreateDepartmentRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=255"`
	Phone *string `json:"phone" validate:"omitempty,max=50"`
}

// UpdateEmployeeRequest - частичное обновление сотрудника.
// Отсутствующее поле и null означают "не менять".
type UpdateEmployeeRequest struct {
	Name       *string                  `json:"name" validate:"omitempty,min=1,max=255"`
	Surname    *string                  `json:"surname" validate:"omitempty,min=1,max=255"`
	Phone      *string                  `json:"phone" validate:"omitempty,max=50"`
	CompanyID  *int64                   `json:"companyId" validate:"omitempty,min=0"`
	Passport   *UpdatePassportRequest   `json:"passport" validate:"omitempty"`
	Department *UpdateDepartmentRequest `json:"department" validate:"omitempty"`
}

// UpdatePassportRequest - изменяемые поля паспорта
type UpdatePassportRequest struct {
	Type   *string `json:"type" validate:"omitempty,min=1,max=50"`
	Number *string `json:"number" validate:"omitempty,min=1,max=100"`
}

// UpdateDepartmentRequest - новый отдел сотрудника
type UpdateDepartmentRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Phone *string `json:"phone" validate:"omitempty,max=50"`
}

// CreateEmployeeResponse - ответ на создание сотрудника
type CreateEmployeeResponse struct {
	ID int64 `json:"id"`
}

// EmployeeResponse - ответ с данными сотрудника
type EmployeeResponse struct {
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	Surname    string             `json:"surname"`
	Phone      *string            `json:"phone"`
	CompanyID  int64              `json:"companyId"`
	Passport   PassportResponse   `json:"passport"`
	Department DepartmentResponse `json:"department"`
}

// PassportResponse - паспорт сотрудника в ответе
type PassportResponse struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

// DepartmentResponse - отдел сотрудника в ответе
type DepartmentResponse struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Status  int    `json:"status"`
}
