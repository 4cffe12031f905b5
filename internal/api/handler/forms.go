package handler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/csemotors/dealership/internal/core/domain"
)

type loginForm struct {
	Email    string `form:"account_email" validate:"required,email"`
	Password string `form:"account_password" validate:"required"`
}

type registerForm struct {
	FirstName string `form:"account_firstname" validate:"required"`
	LastName  string `form:"account_lastname" validate:"required,min=2"`
	Email     string `form:"account_email" validate:"required,email"`
	Password  string `form:"account_password" validate:"required,strongpassword"`
}

type accountForm struct {
	ID        int64  `form:"account_id" validate:"required,gt=0"`
	FirstName string `form:"account_firstname" validate:"required"`
	LastName  string `form:"account_lastname" validate:"required,min=2"`
	Email     string `form:"account_email" validate:"required,email"`
}

type passwordForm struct {
	ID       int64  `form:"account_id" validate:"required,gt=0"`
	Password string `form:"account_password" validate:"required,strongpassword"`
}

// adminRowForm is one row of the admin bulk update table.
type adminRowForm struct {
	ID        int64  `form:"account_id" validate:"required,gt=0"`
	FirstName string `form:"account_firstname" validate:"required"`
	LastName  string `form:"account_lastname" validate:"required,min=2"`
	Email     string `form:"account_email" validate:"required,email"`
	Role      string `form:"account_type" validate:"required,role"`
}

func (f adminRowForm) update() domain.AccountUpdate {
	role, _ := domain.ParseRole(f.Role)
	return domain.AccountUpdate{
		ID:        f.ID,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Role:      role,
	}
}

type commentForm struct {
	VehicleID int64  `form:"inv_id" validate:"required,gt=0"`
	Text      string `form:"comment_text" validate:"required,max=1000"`
}

type classificationForm struct {
	Name string `form:"classification_name" validate:"required,min=3,alphanum"`
}

// vehicleForm keeps every input as text so a rejected form re-renders exactly
// what was typed.
type vehicleForm struct {
	ID               int64  `form:"inv_id"`
	ClassificationID string `form:"classification_id" validate:"required,number"`
	Make             string `form:"inv_make" validate:"required,min=3,alphanum"`
	Model            string `form:"inv_model" validate:"required,min=3,alphanumspace"`
	Year             string `form:"inv_year" validate:"required,number,len=4"`
	Description      string `form:"inv_description" validate:"required"`
	Image            string `form:"inv_image" validate:"required,vehicleimage"`
	Thumbnail        string `form:"inv_thumbnail" validate:"required,vehicleimage"`
	Price            string `form:"inv_price" validate:"required,number"`
	Miles            string `form:"inv_miles" validate:"required,number"`
	Color            string `form:"inv_color" validate:"required,alphaspace"`
}

func newVehicleForm(v domain.Vehicle) vehicleForm {
	return vehicleForm{
		ID:               v.ID,
		ClassificationID: strconv.FormatInt(v.ClassificationID, 10),
		Make:             v.Make,
		Model:            v.Model,
		Year:             v.Year,
		Description:      v.Description,
		Image:            v.Image,
		Thumbnail:        v.Thumbnail,
		Price:            strconv.FormatFloat(v.Price, 'f', -1, 64),
		Miles:            strconv.FormatInt(v.Miles, 10),
		Color:            v.Color,
	}
}

func (f *vehicleForm) trim() {
	f.Make = strings.TrimSpace(f.Make)
	f.Model = strings.TrimSpace(f.Model)
	f.Year = strings.TrimSpace(f.Year)
	f.Description = strings.TrimSpace(f.Description)
	f.Image = strings.TrimSpace(f.Image)
	f.Thumbnail = strings.TrimSpace(f.Thumbnail)
	f.Color = strings.TrimSpace(f.Color)
}

// vehicle converts a validated form.
func (f vehicleForm) vehicle() (domain.Vehicle, error) {
	classID, err := strconv.ParseInt(f.ClassificationID, 10, 64)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("classification_id: %w", err)
	}
	price, err := strconv.ParseFloat(f.Price, 64)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("inv_price: %w", err)
	}
	miles, err := strconv.ParseInt(f.Miles, 10, 64)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("inv_miles: %w", err)
	}
	return domain.Vehicle{
		ID:               f.ID,
		ClassificationID: classID,
		Make:             f.Make,
		Model:            f.Model,
		Year:             f.Year,
		Description:      f.Description,
		Image:            f.Image,
		Thumbnail:        f.Thumbnail,
		Price:            price,
		Miles:            miles,
		Color:            f.Color,
	}, nil
}

func (f vehicleForm) classificationID() int64 {
	id, _ := strconv.ParseInt(f.ClassificationID, 10, 64)
	return id
}

// parseAdminRows reads the accounts[i][field] inputs of the admin table.
// Rows come back ordered by account id.
func parseAdminRows(values map[string][]string) []adminRowForm {
	rows := make(map[int]*adminRowForm)
	for key, vals := range values {
		idx, field, ok := splitIndexedKey(key)
		if !ok || len(vals) == 0 {
			continue
		}
		row, exists := rows[idx]
		if !exists {
			row = &adminRowForm{}
			rows[idx] = row
		}
		v := strings.TrimSpace(vals[0])
		switch field {
		case "account_id":
			row.ID, _ = strconv.ParseInt(v, 10, 64)
		case "account_firstname":
			row.FirstName = v
		case "account_lastname":
			row.LastName = v
		case "account_email":
			row.Email = v
		case "account_type":
			row.Role = v
		}
	}

	out := make([]adminRowForm, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// splitIndexedKey parses "accounts[3][account_email]".
func splitIndexedKey(key string) (int, string, bool) {
	rest, ok := strings.CutPrefix(key, "accounts[")
	if !ok {
		return 0, "", false
	}
	idxStr, rest, ok := strings.Cut(rest, "][")
	if !ok {
		return 0, "", false
	}
	field, ok := strings.CutSuffix(rest, "]")
	if !ok || field == "" {
		return 0, "", false
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 {
		return 0, "", false
	}
	return idx, field, true
}
