package models

import "testing"

func TestParsePlan(t *testing.T) {
	tc := []struct {
		name    string
		input   string
		want    Plan
		wantErr bool
	}{
		{"lowercase", "premium", PlanPremium, false},
		{"mixed case", "Standard", PlanStandard, false},
		{"surrounding whitespace", "  basic  ", PlanBasic, false},
		{"mobile", "mobile", PlanMobile, false},
		{"unknown plan", "ultra", PlanNone, true},
		{"empty", "", PlanNone, true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlan(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePlan(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParsePlan(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlanCatalog(t *testing.T) {
	catalog := PlanCatalog()

	if len(catalog) != len(Plans()) {
		t.Fatalf("expected %d plans, got %d", len(Plans()), len(catalog))
	}

	for i, plan := range Plans() {
		if catalog[i].ID != plan {
			t.Errorf("catalog entry %d should be %s, got %s", i, plan, catalog[i].ID)
		}
		if catalog[i].Name == "" || catalog[i].Price == "" {
			t.Errorf("catalog entry %s is missing display fields: %+v", plan, catalog[i])
		}
	}
}

func TestUser(t *testing.T) {
	t.Run("IsAdmin", func(t *testing.T) {
		if (User{Role: RoleUser}).IsAdmin() {
			t.Error("regular user must not be admin")
		}
		if !(User{Role: RoleAdmin}).IsAdmin() {
			t.Error("admin user should be admin")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		valid := User{UserID: 1, Email: "a@b.c"}
		if err := valid.Validate(); err != nil {
			t.Errorf("expected valid user, got %v", err)
		}

		if err := (User{Email: "a@b.c"}).Validate(); err == nil {
			t.Error("expected error for missing id")
		}
		if err := (User{UserID: 1}).Validate(); err == nil {
			t.Error("expected error for missing email")
		}
	})
}

func TestMovieDescription(t *testing.T) {
	movie := Movie{DescriptionEN: "english", DescriptionID: "indonesian"}
	if movie.Description() != "english" {
		t.Errorf("expected English description preferred, got %s", movie.Description())
	}

	movie.DescriptionEN = ""
	if movie.Description() != "indonesian" {
		t.Errorf("expected Indonesian fallback, got %s", movie.Description())
	}
}

func TestRegisterInputValidate(t *testing.T) {
	valid := RegisterInput{
		Nickname:             "viewer",
		Email:                "viewer@example.com",
		Password:             "longenough",
		PasswordConfirmation: "longenough",
		Plan:                 PlanBasic,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	tc := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing nickname", func(in *RegisterInput) { in.Nickname = "" }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"short password", func(in *RegisterInput) { in.Password = "short" }},
		{"mismatched confirmation", func(in *RegisterInput) { in.PasswordConfirmation = "different-pw" }},
		{"no plan", func(in *RegisterInput) { in.Plan = PlanNone }},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			if err := input.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	t.Run("empty confirmation is accepted", func(t *testing.T) {
		input := valid
		input.PasswordConfirmation = ""
		if err := input.Validate(); err != nil {
			t.Errorf("confirmation should be optional, got %v", err)
		}
	})
}

func TestPaginationHasNext(t *testing.T) {
	if (Pagination{Page: 3, TotalPages: 3}).HasNext() {
		t.Error("last page must not have a next page")
	}
	if !(Pagination{Page: 1, TotalPages: 3}).HasNext() {
		t.Error("first of three pages should have a next page")
	}
}
