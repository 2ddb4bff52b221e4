package catalog

import (
	"roadmap-workers/internal/common/config"
)

// ==========================
// Test Helper Functions
// ==========================

func testColumns() config.ColumnConfig {
	return config.ColumnConfig{
		QuestionText:     "질문 내용",
		QuestionCategory: "유형",
		JobName:          "직업명",
		JobType:          "유형",
		JobDescription:   "설명",
		ValueAxes:        []string{"연봉", "워라밸", "조직문화", "근무지", "안정성"},
		MajorCareer:      "직업명",
		MajorSlots:       []string{"추천 학과 1", "추천 학과 2", "추천 학과 3"},
		SubjectKey:       "학과(전공)",
		SubjectGeneral:   "일반 선택 과목",
		SubjectAdvanced:  "진로 선택 과목 (심화)",
	}
}

const (
	questionsCSV = "질문 내용,유형\n" +
		"기계를 고치는 것이 좋다,R\n" +
		"실험이 재미있다,I\n" +
		",A\n"

	jobsCSV = "직업명,유형,설명\n" +
		"데이터 사이언티스트,IC,데이터를 분석한다\n" +
		"교사,SA,학생을 가르친다\n" +
		"요리사,RA,\n"

	majorsCSV = "직업명,추천 학과 1,추천 학과 2\n" +
		"데이터 사이언티스트,통계학과,데이터사이언스학과\n" +
		"교사,교육학과,\n"

	subjectsCSV = "학과(전공),일반 선택 과목,진로 선택 과목 (심화)\n" +
		"통계학과,\"수학Ⅰ, 확률과 통계\",경제 수학\n" +
		"교육학과,교육학,사회문제 탐구\n"

	balanceCSV = "직업명,연봉,워라밸,조직문화,근무지,안정성\n" +
		"데이터 사이언티스트,30,20,20,10,20\n" +
		"교사,15,25,20,10,30\n" +
		"요리사,n/a,20,20,20,20\n"
)

func mustTables(csvs map[string]string) map[string]*Table {
	out := make(map[string]*Table, len(csvs))
	for name, body := range csvs {
		t, err := ParseCSV(name, []byte(body))
		if err != nil {
			panic(err)
		}
		out[name] = t
	}
	return out
}

func fullTables() map[string]*Table {
	return mustTables(map[string]string{
		TableQuestions: questionsCSV,
		TableJobs:      jobsCSV,
		TableMajors:    majorsCSV,
		TableSubjects:  subjectsCSV,
		TableBalance:   balanceCSV,
	})
}
