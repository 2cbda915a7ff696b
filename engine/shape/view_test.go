package shape

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stagebase/stagebase/engine/domain"
)

func person(id, name string) domain.CreditEntity {
	return domain.CreditEntity{Model: domain.ModelPerson, UUID: ptr(id), Name: name}
}

func company(id, name string, members ...domain.Ref) domain.CreditEntity {
	return domain.CreditEntity{Model: domain.ModelCompany, UUID: ptr(id), Name: name, Members: members}
}

func member(id, name string) domain.Ref {
	return domain.Ref{Model: domain.ModelPerson, UUID: ptr(id), Name: name}
}

func TestNullifyEntities_OnlyMatchingUUID(t *testing.T) {
	in := []domain.CreditEntity{
		person("p1", "Ferdinand Foo"),
		person("p2", "Ferdinand Foo"),
		company("c1", "Foo Inc", member("p1", "Ferdinand Foo")),
	}
	got := NullifyEntities(in, "p1")
	if got[0].UUID != nil {
		t.Error("viewpoint not nullified")
	}
	if domain.Deref(got[1].UUID) != "p2" {
		t.Error("same-named entity with other uuid was nullified")
	}
	if got[2].Members[0].UUID != nil {
		t.Error("viewpoint as member not nullified")
	}
	if in[0].UUID == nil || in[2].Members[0].UUID == nil {
		t.Error("input mutated")
	}
}

func TestClassify_PersonThroughCompany(t *testing.T) {
	c := domain.Credit{
		Model: domain.ModelProducerCredit,
		Name:  "produced by",
		Entities: []domain.CreditEntity{
			company("c1", "Fiery Angel", member("p1", "Edward Snape"), member("p2", "Marilyn Eardley")),
			person("p3", "Jack Bradley"),
			company("c2", "Second Co", member("p1", "Edward Snape")),
		},
	}
	got := Classify(c, "p1")
	want := domain.ViewedCredit{
		Model: domain.ModelProducerCredit,
		Name:  "produced by",
		EmployerCompany: &domain.EmployerCompany{
			Model:     domain.ModelCompany,
			UUID:      ptr("c1"),
			Name:      "Fiery Angel",
			CoMembers: []domain.Ref{member("p2", "Marilyn Eardley")},
		},
		CoEntities: []domain.CreditEntity{
			person("p3", "Jack Bradley"),
			{Model: domain.ModelCompany, UUID: ptr("c2"), Name: "Second Co", Members: []domain.Ref{{Model: domain.ModelPerson, Name: "Edward Snape"}}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("viewed credit (-want +got):\n%s", diff)
	}
}

func TestClassify_DirectPerson(t *testing.T) {
	c := domain.Credit{Entities: []domain.CreditEntity{person("p1", "Solo"), person("p2", "Other")}}
	got := Classify(c, "p1")
	if got.EmployerCompany != nil || got.Members != nil {
		t.Errorf("unexpected classification %+v", got)
	}
	if len(got.CoEntities) != 1 || got.CoEntities[0].Name != "Other" {
		t.Errorf("co-entities = %+v", got.CoEntities)
	}
}

func TestClassify_CompanyWithMembers(t *testing.T) {
	c := domain.Credit{Entities: []domain.CreditEntity{
		company("c1", "Fiery Angel", member("p1", "Edward Snape")),
		person("p3", "Jack Bradley"),
	}}
	got := Classify(c, "c1")
	if diff := cmp.Diff([]domain.Ref{member("p1", "Edward Snape")}, got.Members); diff != "" {
		t.Errorf("members (-want +got):\n%s", diff)
	}
	if len(got.CoEntities) != 1 || got.CoEntities[0].Name != "Jack Bradley" {
		t.Errorf("co-entities = %+v", got.CoEntities)
	}
}

func TestClassify_EmployerWithoutCoMembers(t *testing.T) {
	c := domain.Credit{Entities: []domain.CreditEntity{company("c1", "Solo Co", member("p1", "Only"))}}
	got := Classify(c, "p1")
	if got.EmployerCompany == nil || got.EmployerCompany.CoMembers == nil || len(got.EmployerCompany.CoMembers) != 0 {
		t.Errorf("employer = %+v", got.EmployerCompany)
	}
	if got.CoEntities == nil {
		t.Error("co-entities should be empty, not nil")
	}
}

func TestClassifyNomination_NullifiesWorks(t *testing.T) {
	n := domain.Nomination{
		Model:       domain.ModelNomination,
		IsWinner:    true,
		Type:        "Winner",
		Entities:    []domain.CreditEntity{person("p1", "Andrew Scott")},
		Productions: []domain.ProductionListed{{Model: domain.ModelProduction, UUID: ptr("pr1"), Name: "Present Laughter"}},
		Materials:   []domain.MaterialListed{{Model: domain.ModelMaterial, UUID: ptr("m1"), Name: "Present Laughter"}},
	}
	got := ClassifyNomination(n, "pr1")
	if got.Productions[0].UUID != nil {
		t.Error("viewpoint production not nullified")
	}
	if domain.Deref(got.Materials[0].UUID) != "m1" {
		t.Error("material nullified")
	}
	if len(got.CoEntities) != 1 || !got.IsWinner || got.Type != "Winner" {
		t.Errorf("nomination = %+v", got)
	}
}
