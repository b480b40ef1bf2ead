package testdata

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/fisker/crm-backend/internal/model"
)

var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda", "William",
	"Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah",
	"Charles", "Karen", "Emma", "Liam", "Olivia", "Noah", "Ava", "Ethan", "Sophia", "Mason",
	"Isabella", "Logan", "Mia", "Lucas", "Amelia", "Aiden", "Harper", "Elijah", "Evelyn",
	"Abigail", "Jackson", "Emily", "Sebastian", "Ella", "Mateo", "Scarlett", "Henry", "Grace",
	"Owen", "Chloe", "Alexander", "Priya", "Wei", "Yuki", "Carlos", "Fatima", "Ahmed", "Mei",
	"Raj", "Aisha", "Dmitri", "Ingrid", "Kwame", "Chiara", "Sven", "Yara", "Jin", "Kenji",
	"Nadia", "Diego",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez",
	"Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore",
	"Jackson", "Martin", "Chen", "Patel", "Kim", "Nakamura", "Mueller", "O'Brien", "Svensson",
	"Costa", "Dubois", "Ivanov", "Singh", "Tanaka", "Fernandez", "Zhang", "Okafor", "Berg",
	"Reeves", "Sharma", "Novak", "Ali", "Park", "Larsson", "Rossi", "Yamamoto", "Santos", "Weber",
	"Fischer", "Johansson", "Moreau", "Gupta", "Lee", "Thompson", "White", "Harris", "Clark",
}

var companyPrefixes = []string{
	"Apex", "Vertex", "Pinnacle", "Quantum", "Meridian", "Catalyst", "Nexus", "Horizon",
	"Vanguard", "Zenith", "Atlas", "Titan", "Nova", "Stellar", "Cipher", "Prism", "Ascend",
	"Forge", "Beacon", "Crest", "Pulse", "Summit", "Bridge", "Core", "Flux", "Arc", "Orion",
	"Vector", "Helix", "Omega",
}

var companySuffixes = []string{
	"Solutions", "Systems", "Technologies", "Industries", "Group", "Corp", "Enterprises",
	"Partners", "Services", "Associates", "Labs", "Dynamics", "Ventures", "Analytics", "Consulting",
	"Digital", "Capital", "Innovations", "Networks", "Robotics", "Logistics", "Media",
	"AI", "Cloud", "Health", "Security", "Platforms", "Interactive", "Automation",
}

var opportunityNames = []string{
	"Enterprise License Agreement", "Cloud Migration Project", "Digital Transformation Initiative",
	"Annual Maintenance Renewal", "Platform Upgrade", "Security Assessment", "Data Analytics Suite",
	"Custom Integration", "Managed Services Contract", "Infrastructure Modernization",
	"Compliance Solution", "Training Program", "Proof of Concept", "Strategic Partnership",
	"IoT Deployment", "AI Implementation", "DevOps Toolchain", "ERP Migration",
	"CRM Implementation", "Supply Chain Optimization", "Cybersecurity Audit",
	"Marketing Automation", "HR Platform Rollout", "Financial Systems Upgrade",
	"Network Expansion", "Mobile App Development", "API Integration", "Disaster Recovery Plan",
}

var countries = []string{
	"USA", "Canada", "UK", "Germany", "France", "Japan", "Australia", "Brazil", "India",
	"Singapore", "Netherlands", "Sweden", "Spain", "Italy", "Mexico",
}

// faker 随机数据源，测试时可以固定种子
type faker struct {
	rng *rand.Rand
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

// between 闭区间随机整数
func (f faker) between(lo, hi int) int {
	return lo + f.rng.IntN(hi-lo+1)
}

func (f faker) companyName(seq int) string {
	return fmt.Sprintf("%s %s %d", pick(f.rng, companyPrefixes), pick(f.rng, companySuffixes), seq)
}

func (f faker) phone() string {
	return fmt.Sprintf("+1-%d-%d-%d", f.between(200, 999), f.between(100, 999), f.between(1000, 9999))
}

func (f faker) email(first, last string, seq int) string {
	return fmt.Sprintf("%s.%s@company%d.com", slug(first), slug(last), seq)
}

func (f faker) industry() string {
	return pick(f.rng, model.AccountIndustries)
}

func (f faker) country() string {
	return pick(f.rng, countries)
}

func (f faker) stage() string {
	return pick(f.rng, model.OpportunityStages)
}

// closeDate 今天之前180天到之后365天
func (f faker) closeDate(today model.Date) model.Date {
	return today.AddDays(f.between(-180, 365))
}

func website(name string) string {
	return "https://www." + slug(name) + ".com"
}

// slug 只保留小写字母和数字
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
